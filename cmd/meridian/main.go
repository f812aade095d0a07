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

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-fc/meridian/internal/app"
	"github.com/meridian-fc/meridian/internal/designer"
	designerhttp "github.com/meridian-fc/meridian/internal/designer/http"
	"github.com/meridian-fc/meridian/internal/document"
	documenthttp "github.com/meridian-fc/meridian/internal/document/http"
	"github.com/meridian-fc/meridian/internal/hierarchy"
	"github.com/meridian-fc/meridian/internal/platform/cache"
	"github.com/meridian-fc/meridian/internal/platform/db"
	"github.com/meridian-fc/meridian/internal/report"
	reporthttp "github.com/meridian-fc/meridian/internal/report/http"
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

	// The cache is optional: a dead Redis degrades runs to direct queries.
	var redisClient *redis.Client
	if client, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis unavailable, aggregation cache disabled", slog.Any("error", err))
	} else {
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	hierarchyService := hierarchy.NewService(hierarchy.NewRepository(pool))
	documentService := document.NewService(document.NewRepository(pool))

	// Background enqueueing rides the same Redis as the cache.
	var jobsClient *jobs.Client
	if redisClient != nil {
		jobsClient = jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := jobsClient.Close(); err != nil {
				logger.Warn("jobs client close", slog.Any("error", err))
			}
		}()
	}

	registry := designer.NewRegistry(cfg.SessionIdleTTL)
	go reapSessions(ctx, registry, logger)

	aggregator := report.NewCachedAggregator(report.NewRepository(pool), redisClient, cfg.CacheTTL)
	executor := report.NewExecutor(aggregator, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		HierarchyHandler: hierarchy.NewHandler(hierarchyService, logger),
		DesignerHandler:  designerhttp.NewHandler(registry, documentService, logger),
		ReportHandler:    reporthttp.NewHandler(registry, executor, logger),
		DocumentHandler:  documenthttp.NewHandler(documentService, logger, jobsClient),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}

func reapSessions(ctx context.Context, registry *designer.Registry, logger *slog.Logger) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Sweep(); n > 0 {
				logger.Info("reaped idle designer sessions", slog.Int("count", n))
			}
		}
	}
}
