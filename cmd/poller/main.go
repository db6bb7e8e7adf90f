package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/coastal-alert-service/internal/adapter/notify"
	"github.com/couchcryptid/coastal-alert-service/internal/adapter/ops"
	"github.com/couchcryptid/coastal-alert-service/internal/config"
	"github.com/couchcryptid/coastal-alert-service/internal/matcher"
	"github.com/couchcryptid/coastal-alert-service/internal/observability"
	"github.com/couchcryptid/coastal-alert-service/internal/poller"
	"github.com/couchcryptid/coastal-alert-service/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewPollerMetrics()

	schedule := source.NewScheduleSource(cfg.ScheduleFile, logger)
	enrichment := source.NewEnrichmentSource(cfg.EnrichmentFile)
	client := notify.NewClient(cfg.NotifyURL, cfg.NotifyTimeout, logger)
	m := matcher.New(enrichment, client, logger)

	p := poller.New(cfg.PollInterval, schedule, m, clockwork.NewRealClock(), logger, metrics)

	srv := ops.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start ops HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server error", "error", err)
		}
	}()

	// Start dispatch poller.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("poller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("ops server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
