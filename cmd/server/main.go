package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hvacops/analytics-api/internal/config"
	"github.com/hvacops/analytics-api/internal/httpx"
	"github.com/hvacops/analytics-api/internal/metrics"
	"github.com/hvacops/analytics-api/internal/pipeline"
	"github.com/hvacops/analytics-api/internal/seed"
	"github.com/hvacops/analytics-api/internal/store"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Without DATABASE_URL the server still comes up and serves the
	// static demo payloads; writes return 503.
	var st store.Store
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
		m, err := store.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		cancel()
		if err != nil {
			logger.Error("mongo unavailable, serving demo data", slog.String("err", err.Error()))
		} else {
			st = m
			defer m.Close(context.Background())
		}
	} else {
		logger.Warn("DATABASE_URL not set, serving demo data")
	}

	if st != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
		if err := seed.New(st, logger).Run(ctx); err != nil {
			logger.Error("seeding failed", slog.String("err", err.Error()))
		}
		cancel()
	}

	mSvc := metrics.NewService(st, logger)
	pSvc := pipeline.NewService(st)

	r := httpx.NewRouter(logger, cfg, st, mSvc, pSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
