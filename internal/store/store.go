package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
	"github.com/dropDatabas3/exercisetracker/internal/store/adapters/memory"
	"github.com/dropDatabas3/exercisetracker/internal/store/adapters/mongo"
	"github.com/dropDatabas3/exercisetracker/internal/store/adapters/pg"
	"github.com/dropDatabas3/exercisetracker/internal/util"
)

// Drivers soportados.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrUnknownDriver se devuelve cuando Config.Driver no es un driver soportado.
var ErrUnknownDriver = errors.New("store: unknown driver")

// Connection es una conexión abierta a un backend.
type Connection interface {
	// Name retorna el nombre del driver ("mongo", "postgres", "memory").
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	Users() repository.UserRepository
}

// Migratable lo implementan las conexiones con migraciones SQL.
type Migratable interface {
	Migrate(ctx context.Context) (applied []int, err error)
}

// Config configuración para abrir el store.
type Config struct {
	Driver string

	MongoURI      string
	MongoDatabase string

	PostgresDSN  string
	MaxOpenConns int
	MaxIdleConns int

	// ConnectTimeout aplica a cada intento de conexión.
	ConnectTimeout time.Duration
	// ConnectRetries cantidad de intentos (>=1).
	ConnectRetries int
}

// Open conecta al driver configurado, reintentando con backoff exponencial.
// Los errores de configuración (driver desconocido, DSN inválido) no se reintentan.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	log := logger.From(ctx).With(logger.Component("store"), logger.Driver(cfg.Driver))

	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var conn Connection
	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			c, err := connect(attemptCtx, cfg)
			if err != nil {
				return err
			}
			conn = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(250*time.Millisecond),
		retry.MaxDelay(5*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrUnknownDriver) && !errors.Is(err, repository.ErrInvalidInput)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("store connect failed, retrying", logger.Int("attempt", int(n)+1), logger.Err(err))
		}),
	)
	if err != nil {
		return nil, err
	}

	log.Info("store connected", logger.String("target", target(cfg)))
	return conn, nil
}

// target describe el destino de la conexión sin credenciales.
func target(cfg Config) string {
	switch cfg.Driver {
	case DriverMongo:
		return util.MaskDSN(cfg.MongoURI) + "/" + cfg.MongoDatabase
	case DriverPostgres:
		return util.MaskDSN(cfg.PostgresDSN)
	}
	return cfg.Driver
}

func connect(ctx context.Context, cfg Config) (Connection, error) {
	switch cfg.Driver {
	case DriverMongo:
		return mongo.Connect(ctx, mongo.Options{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
	case DriverPostgres:
		return pg.Connect(ctx, pg.Options{
			DSN:          cfg.PostgresDSN,
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
		})
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
