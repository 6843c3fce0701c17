package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/exercisetracker/internal/app"
	"github.com/dropDatabas3/exercisetracker/internal/config"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
	"github.com/dropDatabas3/exercisetracker/internal/util"
)

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func main() {
	var (
		flagConfigPath = flag.String("config", "", "ruta a config.yaml (fallback: $CONFIG_PATH o configs/config.yaml)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env (si existe, se carga)")
		flagPrint      = flag.Bool("print-config", false, "imprime config efectiva y termina")
	)
	flag.Parse()

	if *flagEnvFile != "" && fileExists(*flagEnvFile) {
		_ = godotenv.Load(*flagEnvFile)
	}

	cfgPath := *flagConfigPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	if cfgPath == "" && fileExists("configs/config.yaml") {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation:\n%v\n", err)
		os.Exit(1)
	}
	if *flagPrint {
		printConfigSummary(cfg)
		return
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "exercisetracker",
		Version:     cfg.App.Version,
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		log.Fatal("wiring failed", logger.Err(err))
	}

	log.Info("service up",
		logger.String("env", cfg.App.Env),
		logger.String("addr", cfg.Server.Addr),
		logger.Driver(cfg.Storage.Driver),
	)
	if err := a.Run(ctx); err != nil {
		log.Fatal("http", logger.Err(err))
	}
}

func printConfigSummary(c *config.Config) {
	mask := func(s string) string {
		if s == "" {
			return "(unset)"
		}
		return util.MaskDSN(s)
	}
	fmt.Printf(`env=%s version=%s addr=%s
storage.driver=%s mongo.uri=%s mongo.database=%s postgres.dsn=%s retries=%d
cache.kind=%s cache.ttl=%s redis.addr=%s
rate.enabled=%t rate.window=%s rate.max=%d
logs.strategy=%s logs.default_limit=%d migrate=%t log.level=%s log.file=%s
`,
		c.App.Env, c.App.Version, c.Server.Addr,
		c.Storage.Driver, mask(c.Storage.Mongo.URI), c.Storage.Mongo.Database, mask(c.Storage.Postgres.DSN), c.Storage.ConnectRetries,
		c.Cache.Kind, c.Cache.TTL, c.Cache.Redis.Addr,
		c.Rate.Enabled, c.Rate.Window, c.Rate.MaxRequests,
		c.Logs.Strategy, c.Logs.DefaultLimit, c.Flags.Migrate, c.Log.Level, c.Log.File,
	)
}
