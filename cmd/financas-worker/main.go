package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"financas/internal/backend"
	"financas/internal/config"
	"financas/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting financas-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	result, err := backend.Open(cfg)
	if err != nil {
		logger.Error("Failed to open backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	}()

	insightWorker := worker.NewInsightWorker(result.Store, result.Store, result.Store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catch up on anything that changed while the worker was down.
	if err := insightWorker.Rescan(ctx); err != nil {
		logger.Error("Startup rescan failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if result.Events != nil {
		g.Go(func() error {
			return result.Events.ConsumeLedgerEvents(gctx, insightWorker.HandleLedgerEvent)
		})
	} else {
		logger.Info("AMQP not configured, relying on periodic rescans only")
	}

	g.Go(func() error {
		return insightWorker.RunPeriodic(gctx, cfg.ReportScanInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
