package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, "Phase-1.csv", cfg.ScheduleFile)
	assert.Equal(t, "Phase-2.csv", cfg.EnrichmentFile)
	assert.Equal(t, "http://localhost:5000/api/send-alert", cfg.NotifyURL)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":5000", cfg.NotifierAddr)
	assert.Equal(t, ":5050", cfg.ReportsAddr)
	assert.Equal(t, "reports.db", cfg.ReportsDB)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.TwilioAccountSID)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("SCHEDULE_FILE", "events.xlsx")
	t.Setenv("ENRICHMENT_FILE", "contacts.xlsx")
	t.Setenv("NOTIFY_URL", "http://notifier:5000/api/send-alert")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("TWILIO_ACCOUNT_SID", "ACtest")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, "events.xlsx", cfg.ScheduleFile)
	assert.Equal(t, "contacts.xlsx", cfg.EnrichmentFile)
	assert.Equal(t, "http://notifier:5000/api/send-alert", cfg.NotifyURL)
	assert.Equal(t, 3*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "ACtest", cfg.TwilioAccountSID)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLL_INTERVAL")
}

func TestLoad_NegativeInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "-1m")

	_, err := Load()
	require.Error(t, err)
}
