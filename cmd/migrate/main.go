package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Amar9nani/Stock-inventory-management/internal/config"
	"github.com/Amar9nani/Stock-inventory-management/internal/log"
	pgstore "github.com/Amar9nani/Stock-inventory-management/internal/store/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}

	logger := log.NewSlogLogger(cfg.Log)

	pg, err := pgstore.New(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error connecting to postgres: %w", err)
	}
	defer closeWithLog(logger, pg.Close)

	logger.InfoContext(ctx, "starting database migration")

	if err := pg.Migrate(ctx); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	logger.InfoContext(ctx, "database migration completed successfully")

	return nil
}

func closeWithLog(logger *slog.Logger, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error("close error", slog.Any("error", err))
	}
}
