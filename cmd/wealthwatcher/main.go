package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"wealthwatcher/internal/backend"
	"wealthwatcher/internal/cache"
	"wealthwatcher/internal/cli"
	"wealthwatcher/internal/config"
	apphttp "wealthwatcher/internal/http"
	"wealthwatcher/internal/identity"
	"wealthwatcher/internal/log"
	"wealthwatcher/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadConfig((*config.Config).Validate)
	logger := cli.SetupLogger(cfg.SlogLevel(), log.ComponentApp)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	tokens, err := identity.NewManager(cfg.JWTSecret)
	if err != nil {
		logger.Error("Failed to initialize token validation", "error", err)
		os.Exit(1)
	}

	reports := services.NewReportService(res.Store, cfg.ReportCacheSize, cfg.ReportCacheTTL)
	records := services.NewRecordService(res.Store, res.Publisher(), reports)

	caches := cache.NewManager()
	for _, c := range reports.Cleaners() {
		caches.Register(c)
	}
	caches.StartCleanup(10 * time.Minute)

	srv := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, records, reports, res.Store, tokens, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		caches.Stop()
		stats := srv.Stats()
		logger.Info("Request totals",
			"requests", stats.Requests,
			"server_errors", stats.ServerErrors,
			"rate_limited", stats.RateLimited,
			"suspicious", stats.SuspiciousRequests)
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting wealthwatcher server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events", res.Events != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
