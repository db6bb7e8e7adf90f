package domain

import (
	"github.com/go-playground/validator/v10"
)

// DemoPhoneNumber is substituted when an enrichment row has no phone
// column, so demo environments still produce a well-formed payload.
const DemoPhoneNumber = "+15550006789"

// AlertPayload is the body of one dispatch call. It exists only for the
// duration of a single dispatch and is never persisted.
type AlertPayload struct {
	Recipient  string `json:"recipient" validate:"required"`
	ThreatType string `json:"threat_type" validate:"required"`
	Location   string `json:"location" validate:"required"`
	Level      string `json:"level" validate:"required"`
	Message    string `json:"message" validate:"required"`
}

// payloadValidator is initialised once at package load time.
var payloadValidator = validator.New()

// Validate reports whether all five alert fields are present and non-empty.
func (p AlertPayload) Validate() error {
	return payloadValidator.Struct(p)
}

// NewAlertPayload builds the outbound payload from a matched enrichment
// row. A blank phone falls back to [DemoPhoneNumber]; other blank fields
// stay empty and fail validation at the notification endpoint.
func NewAlertPayload(rec EnrichmentRecord) AlertPayload {
	recipient := rec.Phone
	if recipient == "" {
		recipient = DemoPhoneNumber
	}
	return AlertPayload{
		Recipient:  recipient,
		ThreatType: rec.ThreatType,
		Location:   rec.Location,
		Level:      rec.Level,
		Message:    rec.Message,
	}
}
