// Package app arma el servicio completo a partir de la configuración:
// store → cache → rate limiter → services → controllers → router → http.Server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/exercisetracker/internal/cache"
	"github.com/dropDatabas3/exercisetracker/internal/config"
	"github.com/dropDatabas3/exercisetracker/internal/http/controllers"
	"github.com/dropDatabas3/exercisetracker/internal/http/router"
	"github.com/dropDatabas3/exercisetracker/internal/http/services"
	"github.com/dropDatabas3/exercisetracker/internal/http/services/health"
	"github.com/dropDatabas3/exercisetracker/internal/metrics"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
	"github.com/dropDatabas3/exercisetracker/internal/rate"
	"github.com/dropDatabas3/exercisetracker/internal/store"
)

// App es el servicio cableado.
type App struct {
	Handler http.Handler
	Server  *http.Server

	cfg     *config.Config
	conn    store.Connection
	cache   cache.Client
	redis   *redis.Client
	closers []func(context.Context) error
}

// Options permite inyectar dependencias en tests.
type Options struct {
	// Registry de Prometheus; nil usa el default.
	Registry *prometheus.Registry
	// Now reemplaza el reloj de los services.
	Now func() time.Time
}

// New construye la app. Si falla a mitad de camino cierra lo que ya abrió.
func New(ctx context.Context, cfg *config.Config, opts Options) (_ *App, err error) {
	log := logger.From(ctx).With(logger.Component("app"))

	a := &App{cfg: cfg}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	var (
		reg      prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		reg, gatherer = opts.Registry, opts.Registry
	}
	if err := metrics.Register(reg); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	// 1. Store
	conn, err := store.Open(ctx, store.Config{
		Driver:         cfg.Storage.Driver,
		MongoURI:       cfg.Storage.Mongo.URI,
		MongoDatabase:  cfg.Storage.Mongo.Database,
		PostgresDSN:    cfg.Storage.Postgres.DSN,
		MaxOpenConns:   cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns:   cfg.Storage.Postgres.MaxIdleConns,
		ConnectTimeout: config.Dur(cfg.Storage.ConnectTimeout, 10*time.Second),
		ConnectRetries: cfg.Storage.ConnectRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	a.conn = store.Instrument(conn)
	a.closers = append(a.closers, a.conn.Close)

	if cfg.Flags.Migrate {
		if m, ok := store.Unwrap(a.conn).(store.Migratable); ok {
			applied, err := m.Migrate(ctx)
			if err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations applied", logger.Count(len(applied)))
		}
	}
	if p, ok := store.Unwrap(a.conn).(interface{ Stat() *pgxpool.Stat }); ok {
		if err := metrics.RegisterPool(reg, "main", p.Stat); err != nil {
			return nil, fmt.Errorf("metrics pool: %w", err)
		}
	}

	// 2. Redis compartido entre cache y rate limiter
	if cfg.Cache.Kind == "redis" {
		a.redis, err = cache.DialRedis(ctx, cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return a.redis.Close() })
	}

	// 3. Cache
	cacheTTL := config.Dur(cfg.Cache.TTL, 30*time.Second)
	a.cache, err = cache.New(cache.Config{
		Kind:       cfg.Cache.Kind,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: cacheTTL,
		Redis:      a.redis,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	if cfg.Cache.Kind != "redis" {
		// el cliente redis se cierra aparte
		a.closers = append(a.closers, func(context.Context) error { return a.cache.Close() })
	}

	// 4. Rate limiter
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		window := config.Dur(cfg.Rate.Window, time.Minute)
		if a.redis != nil {
			limiter = rate.NewRedisLimiter(a.redis, cfg.Cache.Redis.Prefix+"rl:", cfg.Rate.MaxRequests, window)
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, window)
		}
	}

	// 5. Services → Controllers → Router
	svcs := services.New(services.Deps{
		Repo:            a.conn.Users(),
		Cache:           a.cache,
		CacheTTL:        cacheTTL,
		LogStrategy:     cfg.Logs.Strategy,
		LogDefaultLimit: cfg.Logs.DefaultLimit,
		Health: health.Deps{
			StoreCheck: a.conn.Ping,
			CacheCheck: a.cache.Ping,
			CacheKind:  a.cache.Driver(),
			Version:    cfg.App.Version,
		},
		Now: opts.Now,
	})

	a.Handler = router.New(router.Deps{
		Controllers:    controllers.New(svcs),
		Limiter:        limiter,
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
		MetricsHandler: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	})

	a.Server = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.Handler,
		ReadTimeout:       config.Dur(cfg.Server.ReadTimeout, 10*time.Second),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.Dur(cfg.Server.WriteTimeout, 15*time.Second),
	}

	log.Info("app wired",
		logger.Driver(a.conn.Name()),
		logger.String("cache", a.cache.Driver()),
		logger.Strategy(cfg.Logs.Strategy),
		logger.Bool("rate_limit", limiter != nil),
	)
	return a, nil
}

// Run sirve HTTP hasta que ctx se cancela; después hace shutdown ordenado
// dentro de server.shutdown_timeout y cierra las dependencias.
func (a *App) Run(ctx context.Context) error {
	log := logger.From(ctx).With(logger.Component("app"))

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", logger.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Dur(a.cfg.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", logger.Err(err))
	}
	if err := a.Close(shutdownCtx); err != nil {
		log.Warn("close dependencies", logger.Err(err))
	}
	return serveErr
}

// Close libera store, cache y redis en orden inverso de apertura.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
