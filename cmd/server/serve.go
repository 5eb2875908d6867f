package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"civic-commons/townhall/internal/api"
	"civic-commons/townhall/internal/common"
	"civic-commons/townhall/internal/config"
	"civic-commons/townhall/internal/db"
	"civic-commons/townhall/internal/jobs"
	"civic-commons/townhall/internal/logging"
	"civic-commons/townhall/internal/metrics"
	"civic-commons/townhall/internal/routes"
	"civic-commons/townhall/internal/workers"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with its background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context(), config.FromContext(cmd.Context()))
		},
	}
}

func serveRun(parent context.Context, cfg *config.Config) error {
	if cfg == nil {
		return errors.New("no config found in context")
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info("Townhall starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
		"redis_enabled", cfg.RedisEnabled,
	)

	orm, err := db.InitORM(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(orm); err != nil {
		return err
	}
	sqlxDB, err := db.InitSQLX(cfg, orm)
	if err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled {
		redisClient = common.NewRedisClient(cfg)
		defer redisClient.Close()
	}

	metricsReg := metrics.NewMetricsRegistry()
	deps, err := api.InitDependencies(cfg, orm, sqlxDB, redisClient, metricsReg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	jobs.InitializeJobs(ctx, deps.Services.ResetJob, cfg.WeeklyResetCheckInterval)
	if deps.Services.PushQueue != nil {
		workers.InitWorkers(ctx, cfg, deps.Services.PushQueue, deps.Services.PushDedupe, metricsReg)
	}

	upSince := time.Now()
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           routes.RegisterRoutes(deps, upSince),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
