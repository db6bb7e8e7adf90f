// Package reports implements the citizen threat-report service: report
// submission with image uploads, and report listing. It is an external
// collaborator to the dispatch pipeline and shares no data with it.
package reports

import "time"

// Report statuses follow the triage lifecycle used by the dashboard.
const StatusNew = "New"

// Report is one citizen-submitted threat report.
type Report struct {
	ID           string    `json:"id"`
	ReporterName string    `json:"reporter_name"`
	Location     string    `json:"location"`
	ThreatType   string    `json:"threat_type"`
	Message      string    `json:"message"`
	ImageURLs    []string  `json:"image_urls"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"timestamp"`
}
