package main

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"casa/internal/amqp"
	"casa/internal/backend"
	"casa/internal/cli"
	"casa/internal/log"
	"casa/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	boot := cli.SetupLogger("info", log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(boot)
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentWorker)

	logger.Info("Starting casa-worker", "backend", cfg.DataBackend, "export", cfg.ExportBackend)

	if !cfg.AMQPEnabled() {
		cli.Fatal(logger, "casa-worker needs a message broker", fmt.Errorf("AMQP_URL is not set"))
	}

	ctx, cancel := cli.NotifyShutdown(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	factory := backend.NewFactory(logger)

	source, closeSource, err := factory.CreateSource(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to open data source", err, "backend", cfg.DataBackend)
	}
	defer closeSource()

	exporter, err := factory.CreateExporter(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize exporter", err, "export", cfg.ExportBackend)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer amqpClient.Close()

	w := worker.NewDeadlineWorker(worker.Source(source), exporter, logger)

	// Catch up on changes made while the worker was down.
	if err := w.StartupExport(ctx); err != nil {
		logger.Error("Startup export failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := amqpClient.ConsumeEntityChanged(gctx, w.HandleEntityChanged)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Message consumption failed", "error", err)
		return
	}
	logger.Info("Worker shutdown complete")
}
