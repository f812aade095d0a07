package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/meridian-fc/meridian/internal/app"
	"github.com/meridian-fc/meridian/internal/document"
	"github.com/meridian-fc/meridian/internal/platform/cache"
	"github.com/meridian-fc/meridian/internal/platform/db"
	"github.com/meridian-fc/meridian/internal/report"
	"github.com/meridian-fc/meridian/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// The worker is broker-backed, so Redis is a hard requirement here.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	documents := document.NewRepository(pool)
	aggregator := report.NewCachedAggregator(report.NewRepository(pool), redisClient, cfg.CacheTTL)

	warmupJob := jobs.NewReportWarmupJob(documents, aggregator, logger)
	snapshotJob := jobs.NewDocumentSnapshotJob(documents, documents, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeReportWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskTypeDocumentSnapshot, Handler: snapshotJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
