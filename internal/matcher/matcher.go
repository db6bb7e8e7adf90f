// Package matcher resolves due schedule records to deliverable alert
// payloads and submits them to the notification endpoint.
package matcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/coastal-alert-service/internal/domain"
)

// EnrichmentLoader re-reads the enrichment source. Loads are never
// cached: the matcher must observe edits made between ticks.
type EnrichmentLoader interface {
	Load(ctx context.Context) ([]domain.EnrichmentRecord, error)
}

// Dispatcher submits a payload to the notification endpoint.
type Dispatcher interface {
	Send(ctx context.Context, payload domain.AlertPayload) error
}

// Matcher joins due schedule records against the enrichment source.
type Matcher struct {
	enrichment EnrichmentLoader
	dispatcher Dispatcher
	logger     *slog.Logger
}

// New creates a Matcher.
func New(enrichment EnrichmentLoader, dispatcher Dispatcher, logger *slog.Logger) *Matcher {
	return &Matcher{enrichment: enrichment, dispatcher: dispatcher, logger: logger}
}

// Dispatch looks up the first enrichment row matching the record's ID and
// posts the resulting payload. A missing enrichment row drops the
// notification silently (info log, nil error); load and transport
// failures are returned for the caller to log. Either way the caller
// counts the record as attempted — nothing here is retried.
func (m *Matcher) Dispatch(ctx context.Context, record domain.ScheduleRecord) error {
	if record.ID == "" {
		return fmt.Errorf("schedule record has empty id")
	}

	rows, err := m.enrichment.Load(ctx)
	if err != nil {
		return fmt.Errorf("load enrichment source: %w", err)
	}

	for _, row := range rows {
		if row.ID != record.ID {
			continue
		}

		payload := domain.NewAlertPayload(row)
		if err := m.dispatcher.Send(ctx, payload); err != nil {
			return fmt.Errorf("dispatch alert for %s: %w", record.ID, err)
		}
		m.logger.Info("alert dispatched", "id", record.ID, "recipient", payload.Recipient)
		return nil
	}

	m.logger.Info("no enrichment match, dropping notification", "id", record.ID)
	return nil
}
