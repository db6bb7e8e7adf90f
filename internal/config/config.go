// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment
// variables. A single struct serves the poller, notifier, and reports
// binaries; each reads the fields it needs.
type Config struct {
	// Poller.
	PollInterval   time.Duration
	ScheduleFile   string
	EnrichmentFile string
	NotifyURL      string
	NotifyTimeout  time.Duration
	HTTPAddr       string // poller ops server

	// Notifier.
	NotifierAddr      string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	// Reports.
	ReportsAddr string
	ReportsDB   string
	UploadDir   string

	// Shared.
	AllowedOrigins  []string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is loaded first when
// present (ignored otherwise). Twilio credentials are intentionally not
// required here: their absence surfaces on the first send attempt, so
// demo environments without a provider account can still boot.
func Load() (*Config, error) {
	_ = godotenv.Load()

	pollInterval, err := envDuration("POLL_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	notifyTimeout, err := envDuration("NOTIFY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PollInterval:   pollInterval,
		ScheduleFile:   envOrDefault("SCHEDULE_FILE", "Phase-1.csv"),
		EnrichmentFile: envOrDefault("ENRICHMENT_FILE", "Phase-2.csv"),
		NotifyURL:      envOrDefault("NOTIFY_URL", "http://localhost:5000/api/send-alert"),
		NotifyTimeout:  notifyTimeout,
		HTTPAddr:       envOrDefault("HTTP_ADDR", ":8080"),

		NotifierAddr:      envOrDefault("NOTIFIER_ADDR", ":5000"),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),

		ReportsAddr: envOrDefault("REPORTS_ADDR", ":5050"),
		ReportsDB:   envOrDefault("REPORTS_DB", "reports.db"),
		UploadDir:   envOrDefault("UPLOAD_DIR", "uploads"),

		AllowedOrigins:  splitAndTrim(envOrDefault("ALLOWED_ORIGINS", "*")),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.PollInterval <= 0 {
		return nil, errors.New("POLL_INTERVAL must be positive")
	}
	if cfg.NotifyTimeout <= 0 {
		return nil, errors.New("NOTIFY_TIMEOUT must be positive")
	}
	if cfg.ScheduleFile == "" {
		return nil, errors.New("SCHEDULE_FILE is required")
	}
	if cfg.EnrichmentFile == "" {
		return nil, errors.New("ENRICHMENT_FILE is required")
	}
	if cfg.NotifyURL == "" {
		return nil, errors.New("NOTIFY_URL is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
