package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/coastal-alert-service/internal/config"
	"github.com/couchcryptid/coastal-alert-service/internal/observability"
	"github.com/couchcryptid/coastal-alert-service/internal/reports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	store, err := reports.NewStore(cfg.ReportsDB)
	if err != nil {
		logger.Error("failed to open reports db", "error", err)
		os.Exit(1)
	}
	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to migrate reports db", "error", err)
		os.Exit(1)
	}

	srv, err := reports.NewServer(cfg.ReportsAddr, cfg.AllowedOrigins, store, cfg.UploadDir, logger)
	if err != nil {
		logger.Error("failed to build reports server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("reports server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("reports server shutdown error", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("reports db close error", "error", err)
	}

	logger.Info("shutdown complete")
}
