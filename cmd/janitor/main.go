package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rvconnect/backend/internal/config"
	"github.com/rvconnect/backend/internal/infra/logger"
	"github.com/rvconnect/backend/internal/jobs/cleanup"
	pgrepo "github.com/rvconnect/backend/internal/repo/postgres"
)

func main() {
	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	job := cleanup.New(pgrepo.NewUserRepo(pool), cfg.App.UnconfirmedRetention, log)

	log.Info("janitor started",
		zap.Duration("interval", cfg.App.CleanupInterval),
		zap.Duration("retention", cfg.App.UnconfirmedRetention),
	)

	if err := job.RunLoop(ctx, cfg.App.CleanupInterval); err != nil {
		log.Fatal("cleanup loop failed", zap.Error(err))
	}

	log.Info("janitor stopped")
}
