package source

import (
	"context"
	"log/slog"
	"strings"

	"github.com/couchcryptid/coastal-alert-service/internal/domain"
)

// Schedule source column names, matched after header trimming.
const (
	colID        = "ID"
	colTimestamp = "timestamp"
)

// ScheduleSource loads schedule records from a tabular file.
type ScheduleSource struct {
	path   string
	logger *slog.Logger
}

// NewScheduleSource creates a schedule source for the given file path.
func NewScheduleSource(path string, logger *slog.Logger) *ScheduleSource {
	return &ScheduleSource{path: path, logger: logger}
}

// Load re-reads the whole file. A missing ID or timestamp column fails
// the load; rows with a blank ID or an unparsable timestamp are logged
// and skipped so the rest of the file still dispatches.
func (s *ScheduleSource) Load(ctx context.Context) ([]domain.ScheduleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, header, err := loadRows(s.path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(s.path, header, colID, colTimestamp); err != nil {
		return nil, err
	}

	records := make([]domain.ScheduleRecord, 0, len(rows))
	for _, r := range rows {
		id := strings.TrimSpace(r[colID])
		if id == "" {
			continue
		}

		triggerTime, err := domain.ParseTriggerTime(strings.TrimSpace(r[colTimestamp]))
		if err != nil {
			s.logger.Warn("skipping schedule row", "id", id, "error", err)
			continue
		}

		fields := make(map[string]string, len(r))
		for name, value := range r {
			if name == colID || name == colTimestamp {
				continue
			}
			fields[name] = value
		}

		records = append(records, domain.ScheduleRecord{
			ID:          id,
			TriggerTime: triggerTime,
			Fields:      fields,
		})
	}
	return records, nil
}
