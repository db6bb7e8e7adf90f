package domain

import (
	"fmt"
	"time"
)

// ScheduleRecord is one row of the schedule source. ID is the stable join
// key into the enrichment source; Fields holds any remaining descriptive
// columns verbatim.
type ScheduleRecord struct {
	ID          string
	TriggerTime time.Time
	Fields      map[string]string
}

// EnrichmentRecord is one row of the enrichment source. IDs are not
// guaranteed unique; the matcher takes the first row that matches.
type EnrichmentRecord struct {
	ID         string
	Phone      string
	ThreatType string
	Location   string
	Level      string
	Message    string
}

// triggerTimeLayouts are tried in order. Layouts without a zone offset
// are spreadsheet exports in the poller's local time.
var triggerTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTriggerTime parses a schedule timestamp cell.
func ParseTriggerTime(s string) (time.Time, error) {
	for _, layout := range triggerTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable trigger time %q", s)
}
