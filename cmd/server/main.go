package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carzone/server/internal/app"
	"github.com/carzone/server/internal/shared/config"
	"github.com/carzone/server/internal/shared/database"
	"github.com/carzone/server/internal/shared/logger"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 30 * time.Second

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply pending schema migrations and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *migrateOnly {
		if err := runMigrations(cfg); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	zapLog := application.Logger()
	zap.ReplaceGlobals(zapLog)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      application.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		zapLog.Info("starting server", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("shutting down server")

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Drain requests before stopping background work and closing connections.
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Warn("server forced to shutdown", zap.Error(err))
	}
	application.Stop()

	log.Println("Server exited")
}

func runMigrations(cfg *config.Config) error {
	zapLog := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = zapLog.Sync() }()

	db, err := database.New(&cfg.Database, zapLog)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	return database.Migrate(db, zapLog)
}
