package source

import (
	"context"
	"strings"

	"github.com/couchcryptid/coastal-alert-service/internal/domain"
)

// Enrichment source column names beyond ID, all optional.
const (
	colPhone      = "phone"
	colThreatType = "threat_type"
	colLocation   = "location"
	colLevel      = "level"
	colMessage    = "message"
)

// EnrichmentSource loads delivery details from a tabular file.
type EnrichmentSource struct {
	path string
}

// NewEnrichmentSource creates an enrichment source for the given file path.
func NewEnrichmentSource(path string) *EnrichmentSource {
	return &EnrichmentSource{path: path}
}

// Load re-reads the whole file. Only the ID column is required; blank
// delivery fields are defaulted later when the payload is built.
func (s *EnrichmentSource) Load(ctx context.Context) ([]domain.EnrichmentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, header, err := loadRows(s.path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(s.path, header, colID); err != nil {
		return nil, err
	}

	records := make([]domain.EnrichmentRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, domain.EnrichmentRecord{
			ID:         strings.TrimSpace(r[colID]),
			Phone:      strings.TrimSpace(r[colPhone]),
			ThreatType: r[colThreatType],
			Location:   r[colLocation],
			Level:      r[colLevel],
			Message:    r[colMessage],
		})
	}
	return records, nil
}
