package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/coastal-alert-service/internal/adapter/twilio"
	"github.com/couchcryptid/coastal-alert-service/internal/config"
	"github.com/couchcryptid/coastal-alert-service/internal/gateway"
	"github.com/couchcryptid/coastal-alert-service/internal/notifier"
	"github.com/couchcryptid/coastal-alert-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewNotifierMetrics()

	// Credentials are validated lazily: a missing Twilio account fails
	// the first send, not startup.
	sender := twilio.NewSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken,
		cfg.TwilioPhoneNumber, 30*time.Second)
	gw := gateway.New(sender, logger)

	srv := notifier.NewServer(cfg.NotifierAddr, cfg.AllowedOrigins, gw, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("notifier server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("notifier server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
