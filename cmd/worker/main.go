package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/IBSLPUNE/Bioprime/internal/app"
	jobmetrics "github.com/IBSLPUNE/Bioprime/internal/jobs"
	"github.com/IBSLPUNE/Bioprime/internal/ledger"
	"github.com/IBSLPUNE/Bioprime/internal/observability"
	"github.com/IBSLPUNE/Bioprime/internal/platform/cache"
	"github.com/IBSLPUNE/Bioprime/internal/platform/db"
	"github.com/IBSLPUNE/Bioprime/internal/reports"
	"github.com/IBSLPUNE/Bioprime/internal/statement"
	"github.com/IBSLPUNE/Bioprime/internal/stockbalance"
	"github.com/IBSLPUNE/Bioprime/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

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

	metrics := observability.NewMetrics()
	trackers := jobmetrics.NewMetrics(metrics.Registerer())
	resultCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)

	ledgerRepo := ledger.NewRepository(pool)
	stockRepo := stockbalance.NewRepository(pool)

	registry := reports.NewRegistry()
	for _, report := range []reports.Report{
		statement.NewService(ledgerRepo, resultCache, metrics, logger),
		stockbalance.NewService(stockRepo, resultCache, metrics, logger),
	} {
		if err := registry.Register(report); err != nil {
			logger.Error("register report", slog.Any("error", err))
			os.Exit(1)
		}
	}

	warmupJob := jobs.NewWarmupHandler(registry, trackers, logger)
	bumpJob := jobs.NewBumpHandler(resultCache, trackers, logger)

	warmupTask, err := jobs.NewReportWarmupTask(stockbalance.ReportSlug, url.Values{
		"company": {cfg.WarmupCompany},
	})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskLedgerBump, Handler: bumpJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
