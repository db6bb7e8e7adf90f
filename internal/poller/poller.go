// Package poller drives the dispatch pipeline on a fixed wall-clock
// cadence for the lifetime of the process.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/coastal-alert-service/internal/domain"
	"github.com/couchcryptid/coastal-alert-service/internal/observability"
)

// ScheduleLoader re-reads the schedule source in full; no deltas.
type ScheduleLoader interface {
	Load(ctx context.Context) ([]domain.ScheduleRecord, error)
}

// Dispatcher handles one due schedule record.
type Dispatcher interface {
	Dispatch(ctx context.Context, record domain.ScheduleRecord) error
}

// Poller owns the triggered set and the tick loop. The set is mutated
// only inside tick, and ticks run inline in the Run goroutine, so a slow
// tick delays the next rather than overlapping it and no locking is
// needed.
type Poller struct {
	interval   time.Duration
	schedule   ScheduleLoader
	dispatcher Dispatcher
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.PollerMetrics

	// triggered holds the IDs already dispatched this process lifetime.
	// Monotonic, never persisted: a restart re-dispatches past-due rows.
	triggered map[string]struct{}
	ready     atomic.Bool
}

// New creates a Poller.
func New(interval time.Duration, schedule ScheduleLoader, dispatcher Dispatcher,
	clock clockwork.Clock, logger *slog.Logger, metrics *observability.PollerMetrics) *Poller {
	return &Poller{
		interval:   interval,
		schedule:   schedule,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
		triggered:  make(map[string]struct{}),
	}
}

// CheckReadiness returns nil once at least one tick has completed.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("poller has not completed a tick yet")
	}
	return nil
}

// Run ticks until the context is cancelled. Cancellation stops
// scheduling new ticks; an in-flight tick is never aborted.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "interval", p.interval)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			p.tick(ctx)
		}
	}
}

// tick loads the schedule source and dispatches every due, not yet
// triggered record in source order. A source read failure aborts only
// this tick; a dispatch failure affects only that record.
func (p *Poller) tick(ctx context.Context) {
	start := p.clock.Now()

	records, err := p.schedule.Load(ctx)
	if err != nil {
		p.logger.Error("schedule load failed, skipping tick", "error", err)
		p.metrics.TickErrors.Inc()
		return
	}

	now := p.clock.Now()
	for _, record := range records {
		if _, done := p.triggered[record.ID]; done {
			continue
		}
		if now.Before(record.TriggerTime) {
			continue
		}

		p.logger.Info("record due, dispatching", "id", record.ID, "trigger_time", record.TriggerTime)
		p.metrics.RecordsDue.Inc()

		if err := p.dispatcher.Dispatch(ctx, record); err != nil {
			p.logger.Error("dispatch failed", "id", record.ID, "error", err)
			p.metrics.DispatchErrors.Inc()
		}

		// Marked after the attempt, success or failure. Failed
		// dispatches are not retried.
		p.triggered[record.ID] = struct{}{}
		p.metrics.TriggeredSetSize.Set(float64(len(p.triggered)))
	}

	p.metrics.TicksTotal.Inc()
	p.metrics.TickDuration.Observe(p.clock.Since(start).Seconds())
	p.ready.Store(true)
}
