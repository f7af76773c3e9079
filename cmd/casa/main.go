package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"casa/internal/advice"
	"casa/internal/backend"
	"casa/internal/cache"
	"casa/internal/cli"
	apphttp "casa/internal/http"
	"casa/internal/services"
)

func main() {
	cli.LoadEnvFile()

	boot := cli.SetupLogger("info", "")
	cfg := cli.LoadAndValidateConfig(boot)
	logger := cli.SetupLogger(cfg.LogLevel, "")

	logger.Info("Starting casa", "port", cfg.Port, "backend", cfg.DataBackend)

	ctx, cancel := cli.NotifyShutdown(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, "backend", cfg.DataBackend)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	// A nil *amqp.Client must not become a non-nil interface.
	var publisher services.EventPublisher
	checks := map[string]apphttp.ReadinessCheck{}
	if res.AMQP != nil {
		publisher = res.AMQP
		checks["amqp"] = res.AMQP.Ready
	}
	env := services.NewEnv(res.Store, publisher, logger)

	dashCache := cache.NewLRUCache[services.DashboardBase](cfg.CacheSize, cfg.CacheTTL)
	cacheManager := cache.NewManager(logger)
	cacheManager.Register(dashCache)
	cacheManager.StartCleanup(cfg.CacheTTL)
	defer cacheManager.Stop()

	var advisor advice.Advisor = advice.Disabled{}
	if cfg.AdviceURL != "" {
		advisor = advice.NewHTTPAdvisor(cfg.AdviceURL, cfg.AdviceTimeout)
		logger.Info("Advice endpoint configured", "timeout", cfg.AdviceTimeout)
	}

	maintenance := services.NewMaintenanceService(env)
	svc := apphttp.Services{
		Entities:    services.NewEntityService(env),
		Projects:    services.NewProjectService(env),
		Claims:      services.NewClaimService(env),
		Utilities:   services.NewUtilityService(env),
		Maintenance: maintenance,
		Dashboard:   services.NewDashboardService(env, dashCache),
		Advice:      services.NewAdviceService(env, advisor),
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
		Checks:             checks,
	})
	scheduler := services.NewRecurringScheduler(maintenance, services.SchedulerConfig{Interval: cfg.RecurringInterval}, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		return errors.Join(
			srv.Shutdown(shutdownCtx),
			scheduler.Stop(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return
	}
	logger.Info("Server stopped gracefully")
}
