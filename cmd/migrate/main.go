package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/exercisetracker/internal/config"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
	"github.com/dropDatabas3/exercisetracker/internal/store"
)

// Aplica las migraciones embebidas del adapter Postgres.
// Uso: migrate [-config configs/config.yaml] [-dsn postgres://...]
func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (optional)")
		dsn        = flag.String("dsn", "", "Postgres DSN (overrides config / POSTGRES_DSN)")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load: %v\n", err)
		os.Exit(1)
	}
	if *dsn != "" {
		cfg.Storage.Postgres.DSN = *dsn
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "exercisetracker-migrate"})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	if cfg.Storage.Postgres.DSN == "" {
		log.Fatal("postgres DSN required (-dsn, storage.postgres.dsn or POSTGRES_DSN)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := store.Open(ctx, store.Config{
		Driver:         store.DriverPostgres,
		PostgresDSN:    cfg.Storage.Postgres.DSN,
		ConnectTimeout: config.Dur(cfg.Storage.ConnectTimeout, 10*time.Second),
		ConnectRetries: cfg.Storage.ConnectRetries,
	})
	if err != nil {
		log.Fatal("connect", logger.Err(err))
	}
	defer func() { _ = conn.Close(context.Background()) }()

	m, ok := conn.(store.Migratable)
	if !ok {
		log.Fatal("driver does not support migrations", logger.Driver(conn.Name()))
	}

	start := time.Now()
	applied, err := m.Migrate(ctx)
	if err != nil {
		log.Fatal("migrate", logger.Err(err))
	}
	if len(applied) == 0 {
		log.Info("no pending migrations")
		return
	}
	log.Info("migrations applied", logger.Any("versions", applied), logger.DurationMs(time.Since(start)))
}
