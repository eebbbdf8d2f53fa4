package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"wealthwatcher/internal/backend"
	"wealthwatcher/internal/cli"
	"wealthwatcher/internal/config"
	"wealthwatcher/internal/log"
	"wealthwatcher/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadConfig((*config.Config).ValidateWorker)
	logger := cli.SetupLogger(cfg.SlogLevel(), log.ComponentWorker)

	logger.Info("Starting wealth-worker")

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	bcfg.RequireEvents = true

	factory := backend.NewFactory(logger.Logger)
	res, err := factory.CreateBackend(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err)
		os.Exit(1)
	}
	defer res.Cleanup()

	exporter, err := factory.CreateExporter(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize exporter", "error", err)
		os.Exit(1)
	}
	snapshots := worker.NewSnapshotWorker(res.Store, exporter)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return res.Events.ConsumeRecordChanged(gctx, snapshots.HandleRecordChanged)
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.HealthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				pingCtx, cancel := context.WithTimeout(gctx, 5*time.Second)
				err := res.Store.Ping(pingCtx)
				cancel()
				stats := snapshots.Stats()
				logger.Info("Worker health",
					"processed", stats.Processed,
					"skipped", stats.Skipped,
					"failed", stats.Failed,
					"store_ok", err == nil)
				if err != nil {
					logger.Warn("Record store ping failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	<-done
	logger.Info("Worker shutdown complete")
}
