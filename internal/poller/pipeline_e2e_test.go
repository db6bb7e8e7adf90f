package poller_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/coastal-alert-service/internal/adapter/notify"
	"github.com/couchcryptid/coastal-alert-service/internal/domain"
	"github.com/couchcryptid/coastal-alert-service/internal/gateway"
	"github.com/couchcryptid/coastal-alert-service/internal/matcher"
	"github.com/couchcryptid/coastal-alert-service/internal/notifier"
	"github.com/couchcryptid/coastal-alert-service/internal/observability"
	"github.com/couchcryptid/coastal-alert-service/internal/poller"
	"github.com/couchcryptid/coastal-alert-service/internal/source"
)

type recordingSender struct {
	mu     sync.Mutex
	to     []string
	bodies []string
}

func (r *recordingSender) Send(_ context.Context, to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.to = append(r.to, to)
	r.bodies = append(r.bodies, body)
	return nil
}

func (r *recordingSender) sent() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.to...), append([]string(nil), r.bodies...)
}

// Full pipeline: schedule file -> poller -> matcher -> HTTP dispatch ->
// notification endpoint -> SMS gateway render.
func TestPipeline_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	schedulePath := filepath.Join(dir, "schedule.csv")
	enrichmentPath := filepath.Join(dir, "enrichment.csv")

	require.NoError(t, os.WriteFile(schedulePath, []byte(
		"ID,timestamp\nA1,2024-01-01T00:00:00Z\n"), 0o644))
	require.NoError(t, os.WriteFile(enrichmentPath, []byte(
		"ID,phone,threat_type,location,level,message\n"+
			"A1,+15550001,Cyclone,Bay Coast,Emergency,Evacuate now\n"), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sender := &recordingSender{}
	endpoint := notifier.NewServer(":0", []string{"*"}, gateway.New(sender, logger),
		logger, observability.NewNotifierMetricsForTesting())
	srv := httptest.NewServer(http.HandlerFunc(endpoint.ServeHTTP))
	defer srv.Close()

	fc := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	m := matcher.New(
		source.NewEnrichmentSource(enrichmentPath),
		notify.NewClient(srv.URL+"/api/send-alert", 5*time.Second, logger),
		logger,
	)
	metrics := observability.NewPollerMetricsForTesting()
	p := poller.New(time.Minute, source.NewScheduleSource(schedulePath, logger), m,
		fc, logger, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(time.Minute)

	require.Eventually(t, func() bool {
		to, _ := sender.sent()
		return len(to) == 1
	}, 2*time.Second, 10*time.Millisecond)

	to, bodies := sender.sent()
	assert.Equal(t, []string{"+15550001"}, to)
	for _, want := range []string{"Cyclone", "Bay Coast", "Emergency", "Evacuate now"} {
		assert.Contains(t, bodies[0], want)
	}

	// A second tick must not re-dispatch the already-triggered record.
	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(time.Minute)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.TicksTotal) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	to, _ = sender.sent()
	assert.Len(t, to, 1)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}

// A due record with no enrichment row produces zero network calls.
func TestPipeline_NoEnrichmentMatch(t *testing.T) {
	dir := t.TempDir()
	schedulePath := filepath.Join(dir, "schedule.csv")
	enrichmentPath := filepath.Join(dir, "enrichment.csv")

	require.NoError(t, os.WriteFile(schedulePath, []byte(
		"ID,timestamp\nA1,2024-01-01T00:00:00Z\n"), 0o644))
	require.NoError(t, os.WriteFile(enrichmentPath, []byte(
		"ID,phone\nB2,+15550002\n"), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := matcher.New(
		source.NewEnrichmentSource(enrichmentPath),
		notify.NewClient(srv.URL, 5*time.Second, logger),
		logger,
	)

	rec := domain.ScheduleRecord{ID: "A1", TriggerTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, m.Dispatch(context.Background(), rec))
	assert.Zero(t, calls)
}
