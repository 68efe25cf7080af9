package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"marketplace/internal/database"
	"marketplace/internal/server"
	"marketplace/migrations"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// In-flight requests get 30 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

func runServe() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.JWT.Secret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	log.Info("Starting marketplace dashboard API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	dbService, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	db := dbService.DB()

	log.Info("Database health check", zap.Any("health", dbService.Health()))

	if err := database.RunMigrations(db, migrations.FS, log); err != nil {
		dbService.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed successfully")

	uploader, err := server.NewUploader(cfg.Cloudinary, log)
	if err != nil {
		dbService.Close()
		return fmt.Errorf("failed to configure uploads: %w", err)
	}

	redisClient := server.NewRedisClient(cfg.Redis, log)
	srv := server.NewServer(cfg, log, db, redisClient, uploader)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	<-done
	log.Info("Graceful shutdown complete")
	return nil
}
