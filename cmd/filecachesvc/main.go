// Command filecachesvc exposes a filecache.Cache over HTTP: a value store
// at /v1/entries and a file store at /v1/files, with health, readiness, and
// metrics endpoints.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zynqcloud/filecache"
	"github.com/zynqcloud/filecache/cmd/filecachesvc/internal/config"
	"github.com/zynqcloud/filecache/cmd/filecachesvc/internal/handler"
	"github.com/zynqcloud/filecache/internal/cachemetrics"
	"github.com/zynqcloud/filecache/internal/cleanup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "err", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	metrics := cachemetrics.New("filecache", registry)

	cache, err := filecache.New(cfg.CacheRoot, filecache.WithLogger(logger), filecache.WithMetrics(metrics))
	if err != nil {
		logger.Error("failed to initialise cache", "err", err)
		os.Exit(1)
	}

	// Root context — cancelled when a shutdown signal arrives. Background
	// goroutines (the GC sweeper) receive this context so they stop
	// cleanly without needing their own signal wiring.
	ctx, cancel := context.WithCancel(context.Background())

	var gcDone <-chan struct{}
	if cfg.GCInterval > 0 {
		gcDone = cleanup.RunPeriodic(ctx, cache, cfg.GCSweepLimit, cfg.GCInterval, logger)
		logger.Info("background gc enabled", "interval", cfg.GCInterval, "sweep_limit", cfg.GCSweepLimit)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.New(cfg, cache, logger, registry),
		ReadHeaderTimeout: 10 * time.Second,
		// ReadTimeout/WriteTimeout are left at 0 (no limit): a large file
		// fetched into the file store can take longer than any fixed
		// per-request timeout would allow. A reverse proxy in front of this
		// service is the right layer to bound total connection time.
		ReadTimeout:  0,
		WriteTimeout: 0,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("filecache service starting", "port", cfg.Port, "cache_root", cache.Root())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// shutdownSignals is defined in signals.go (os.Interrupt) and extended by
	// signals_unix.go (+ SIGTERM) via build tags — no OS-specific imports here.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	logger.Info("shutdown signal received — draining connections")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}

	if gcDone != nil {
		<-gcDone
	}

	logger.Info("filecache service stopped")
}
