package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/IBSLPUNE/Bioprime/internal/app"
	"github.com/IBSLPUNE/Bioprime/internal/ledger"
	"github.com/IBSLPUNE/Bioprime/internal/observability"
	"github.com/IBSLPUNE/Bioprime/internal/platform/cache"
	"github.com/IBSLPUNE/Bioprime/internal/platform/db"
	"github.com/IBSLPUNE/Bioprime/internal/reports"
	reporthttp "github.com/IBSLPUNE/Bioprime/internal/reports/http"
	"github.com/IBSLPUNE/Bioprime/internal/statement"
	"github.com/IBSLPUNE/Bioprime/internal/stockbalance"
	"github.com/IBSLPUNE/Bioprime/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
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
	resultCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := resultCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

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

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() { _ = inspector.Close() }()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		Pool:          pool,
		ReportHandler: reporthttp.NewHandler(registry, logger),
		JobsHandler:   jobsHandler.Routes(),
		Metrics:       metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("http server", slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
