package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/actionhub/action-hub/internal/auth"
	"github.com/actionhub/action-hub/internal/config"
	"github.com/actionhub/action-hub/internal/database"
	"github.com/actionhub/action-hub/internal/models"
	"github.com/actionhub/action-hub/internal/notify"
	"github.com/actionhub/action-hub/internal/server"
	"github.com/actionhub/action-hub/internal/worker"
)

func main() {
	cfg := config.Load()

	logger := worker.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.EncryptionKey != "" {
		if err := models.InitEncryption(cfg.EncryptionKey); err != nil {
			logger.Error("Failed to initialize token encryption", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("TOKEN_ENCRYPTION_KEY not set, provider tokens will be stored in plaintext")
	}

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	if cfg.Env == "development" {
		if err := database.SeedDevData(db); err != nil {
			logger.Warn("Failed to seed development data", "error", err)
		}
	}

	auth.InitProviders(cfg)

	if err := worker.InitClient(cfg.RedisURL); err != nil {
		logger.Error("Failed to initialize task client", "error", err)
		os.Exit(1)
	}
	defer worker.CloseClient()

	stopWorker, err := worker.Start(cfg, db, notify.NewService(logger))
	if err != nil {
		logger.Error("Failed to start worker", "error", err)
		os.Exit(1)
	}
	defer stopWorker()

	stopScheduler, err := worker.StartScheduler(cfg)
	if err != nil {
		logger.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer stopScheduler()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.New(cfg, db, logger),
	}

	go func() {
		logger.Info("Server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}
