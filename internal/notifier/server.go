// Package notifier serves the alert notification endpoint that fronts
// the SMS gateway.
package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/coastal-alert-service/internal/domain"
	"github.com/couchcryptid/coastal-alert-service/internal/observability"
)

// AlertSender delegates a validated payload to the SMS gateway.
type AlertSender interface {
	SendThreatAlert(ctx context.Context, p domain.AlertPayload) error
}

// Server exposes POST /api/send-alert plus health and metrics routes.
type Server struct {
	httpServer *http.Server
	gateway    AlertSender
	logger     *slog.Logger
	metrics    *observability.NotifierMetrics
}

// NewServer builds the notifier HTTP server. The endpoint is
// deliberately unauthenticated and unlimited: repeated identical calls
// cause repeated sends.
func NewServer(addr string, allowedOrigins []string, gw AlertSender,
	logger *slog.Logger, metrics *observability.NotifierMetrics) *Server {
	s := &Server{gateway: gw, logger: logger, metrics: metrics}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/api/send-alert", s.handleSendAlert)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("notifier server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleSendAlert(w http.ResponseWriter, r *http.Request) {
	s.metrics.AlertsReceived.Inc()

	var payload domain.AlertPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.metrics.AlertsRejected.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		return
	}
	if err := payload.Validate(); err != nil {
		s.logger.Warn("alert payload rejected", "error", err)
		s.metrics.AlertsRejected.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		return
	}

	if err := s.gateway.SendThreatAlert(r.Context(), payload); err != nil {
		// The gateway already logged the provider detail; surface the
		// failure so the caller sees the dispatch was not confirmed.
		s.metrics.SMSErrors.Inc()
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	s.metrics.SMSSent.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "SMS sent"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
