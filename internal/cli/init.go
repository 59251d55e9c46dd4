// Package cli holds the start-up steps shared by the everydollar binaries.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"everydollar/internal/config"
	applog "everydollar/internal/log"
	"everydollar/internal/storage"
)

// SetupLogger builds the process logger from cfg and installs it as the
// slog default. An unknown level falls back to info.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = applog.DefaultConfig().Level
	}

	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: component,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and checks it with validate.
// It exits the process on failure, before any logger is configured.
func LoadAndValidateConfig(validate func(*config.Config) error) *config.Config {
	bootstrap := applog.New(applog.DefaultConfig())

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := validate(cfg); err != nil {
		bootstrap.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens the ledger database, running migrations, or exits the
// process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
