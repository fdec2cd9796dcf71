package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"finances/internal/backend"
	"finances/internal/cache"
	"finances/internal/cli"
	"finances/internal/log"
	"finances/internal/storage"
	"finances/internal/worker"
)

const rowIndexSweep = 10 * time.Minute

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		cli.Fatal(nil, "Failed to load .env", err)
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(nil, "Configuration validation failed", err)
	}
	if cfg.AMQPURL == "" {
		cli.Fatal(nil, "Configuration validation failed", errors.New("AMQP_URL is required for the worker"))
	}

	logger, err := cli.SetupLogger(cfg.LogLevel)
	if err != nil {
		cli.Fatal(nil, "Invalid log level", err)
	}
	logger = logger.WithComponent(log.ComponentWorker)
	logger.Info("Starting finances-worker")

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	factory := backend.NewFactory(logger)

	res, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err)
	}
	defer res.Cleanup()
	broker, err := res.RequireAMQP()
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}

	mirror, err := factory.CreateMirror(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize sheet mirror", err)
	}

	records := storage.NewRepository(res.Store, storage.MonthlyRecords)
	mirrorWorker := worker.NewMirrorWorker(records, mirror.Mirror, logger)

	janitor := cache.NewJanitor(func(removed int) {
		logger.Debug("Row index sweep", "entries_removed", removed)
	})
	if mirror.RowIndex != nil {
		janitor.Register(mirror.RowIndex)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := broker.ConsumeChanges(gctx, mirrorWorker.HandleChange)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return janitor.Run(gctx, rowIndexSweep)
	})

	logger.Info("Worker running", "mirror", string(mirror.Kind), "queue", cfg.AMQPQueue)
	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err.Error())
		res.Cleanup()
		cli.Fatal(logger, "Worker failed", err)
	}
	logger.Info("Worker shutdown complete")
}
