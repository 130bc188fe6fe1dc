package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Amar9nani/Stock-inventory-management/internal/cache"
	"github.com/Amar9nani/Stock-inventory-management/internal/config"
	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
	"github.com/Amar9nani/Stock-inventory-management/internal/httpapi"
	"github.com/Amar9nani/Stock-inventory-management/internal/log"
	"github.com/Amar9nani/Stock-inventory-management/internal/service"
	"github.com/Amar9nani/Stock-inventory-management/internal/store"
	"github.com/Amar9nani/Stock-inventory-management/internal/store/memory"
	pgstore "github.com/Amar9nani/Stock-inventory-management/internal/store/postgres"
)

type Config struct {
	Log      config.Log
	HTTP     config.HTTP
	Postgres config.Postgres
	Redis    config.Redis
	Auth     config.Auth
	Admin    config.Admin
	Seed     config.Seed
}

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	time.Local = time.UTC

	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := validateSecurityConfig(cfg); err != nil {
		return fmt.Errorf("invalid security configuration: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closers := make([]func() error, 0, 2)
	defer func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logger.Error("close error", slog.Any("error", err))
			}
		}
	}()

	var repo store.Repository
	if cfg.Postgres.URL != "" {
		pg, err := pgstore.New(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("postgres unavailable and DATABASE_URL is set: %w", err)
		}
		closers = append(closers, pg.Close)
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("error migrating database: %w", err)
		}
		repo = pg
		logger.Info("repository: postgres")
	} else if cfg.Seed.DemoData {
		repo = memory.NewSeeded()
		logger.Info("repository: in-memory with demo data")
	} else {
		repo = memory.New()
		logger.Info("repository: in-memory")
	}

	var revoked cache.RevocationList = cache.NewMemoryRevocationList()
	if cfg.Redis.Addr != "" {
		redisList := cache.NewRedisRevocationList(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisList.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, keeping revoked tokens in memory", slog.Any("error", err))
			_ = redisList.Close()
		} else {
			revoked = redisList
			closers = append(closers, redisList.Close)
			logger.Info("revocation list: redis")
		}
	}

	svc := service.New(repo, logger)
	auth := httpapi.NewAuthManager(cfg.Auth.Secret, cfg.Auth.TokenTTL, revoked)

	if err := bootstrapAdmin(ctx, svc, auth, cfg.Admin, logger); err != nil {
		return err
	}

	api := httpapi.New(svc, auth, cfg.HTTP.AllowedOrigins, logger)
	server := &http.Server{
		Addr:              cfg.HTTP.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("stock inventory server listening", slog.String("addr", cfg.HTTP.Address()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}
	logger.Info("server stopped")
	return nil
}

func bootstrapAdmin(ctx context.Context, svc *service.Service, auth *httpapi.AuthManager, cfg config.Admin, logger *slog.Logger) error {
	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin, created, err := svc.EnsureAdmin(ctx, domain.User{
		Username:     strings.TrimSpace(cfg.Username),
		PasswordHash: hash,
		Email:        strings.TrimSpace(cfg.Email),
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		logger.Info("admin account created", slog.String("username", admin.Username))
	}
	return nil
}

func validateSecurityConfig(cfg Config) error {
	if len(cfg.Auth.Secret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if strings.TrimSpace(cfg.Admin.Username) == "" {
		return fmt.Errorf("ADMIN_USERNAME must not be blank")
	}
	if len(cfg.Admin.Password) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be set and at least 8 characters")
	}
	if err := validatePasswordStrength(cfg.Admin.Password, cfg.Admin.Username); err != nil {
		return fmt.Errorf("ADMIN_PASSWORD is too weak: %w", err)
	}
	return nil
}

// validatePasswordStrength rejects well-known passwords, passwords made of a
// single repeated character, and passwords equal to the username.
func validatePasswordStrength(password string, username string) error {
	known := map[string]bool{
		"password": true, "password1": true, "12345678": true, "123456789": true,
		"admin123": true, "adminadmin": true, "qwertyui": true, "letmein1": true,
		"changeme": true, "iloveyou": true, "11111111": true, "00000000": true,
	}
	if known[strings.ToLower(password)] {
		return fmt.Errorf("common password not allowed")
	}
	if strings.EqualFold(password, username) {
		return fmt.Errorf("password must differ from the username")
	}

	allSame := true
	for i := 1; i < len(password); i++ {
		if password[i] != password[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return fmt.Errorf("single-character password not allowed")
	}
	return nil
}
