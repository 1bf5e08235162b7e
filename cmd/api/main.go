package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/abas-api/internal/auth"
	"github.com/Dan9191/abas-api/internal/config"
	"github.com/Dan9191/abas-api/internal/handler"
	"github.com/Dan9191/abas-api/internal/health"
	"github.com/Dan9191/abas-api/internal/middleware"
	"github.com/Dan9191/abas-api/internal/repository"
	"github.com/Dan9191/abas-api/internal/service"
	"github.com/Dan9191/abas-api/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	var (
		users   service.UserDirectory
		monitor *health.Monitor
	)

	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("Using in-memory user store, data is lost on restart")
		users = repository.NewMemoryRepository()
	default:
		db, err := openDatabase(ctx, cfg.DBConn)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repository.RunMigrations(ctx, db); err != nil {
			return err
		}
		users = repository.NewRepository(db)

		monitor = health.NewMonitor(db, logger)
		if err := monitor.Start(cfg.HealthSchedule); err != nil {
			return err
		}
		defer monitor.Stop()
	}

	// Initialize layers
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpires)
	var notifier service.Notifier
	if cfg.MailEnabled() {
		notifier = email.NewSender(cfg, logger)
	}
	svc := service.NewService(users, auth.NewBcryptHasher(cfg.BcryptCost), tokens, notifier, logger)
	h := handler.NewHandler(svc, monitor, logger)

	// Setup router
	r := h.Router(middleware.AuthMiddleware(tokens, logger))
	r.Use(middleware.RequestLogger(logger))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
