// Package cache provee abstracciones para caching con soporte multi-backend.
//
// Soporta:
//   - Memory (in-process sobre go-cache, para desarrollo/un solo nodo)
//   - Redis (distribuido, para varias réplicas)
//
// Los services lo usan como read-through cache: un error de cache nunca es fatal,
// se loguea y se va directo al store.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL opcional.
	// Si ttl es 0, usa el TTL por defecto del cliente.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete elimina una key.
	Delete(ctx context.Context, key string) error

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error

	// Driver retorna "memory" o "redis".
	Driver() string
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Kind       string // "memory" | "redis"
	Prefix     string // Prefijo para todas las keys
	DefaultTTL time.Duration

	// Redis ya construido (compartido con el rate limiter). Requerido si Kind es "redis".
	Redis *redis.Client
}

// ErrNotFound indica que la key no existe o expiró.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente de cache según la configuración.
func New(cfg Config) (Client, error) {
	switch cfg.Kind {
	case "redis":
		if cfg.Redis == nil {
			return nil, errors.New("cache: redis kind requires a redis client")
		}
		return NewRedis(cfg.Redis, cfg.Prefix, cfg.DefaultTTL), nil
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	default:
		return nil, errors.New("cache: unknown kind " + cfg.Kind)
	}
}
