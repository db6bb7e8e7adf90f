// Package gateway renders threat alerts as SMS messages and hands them
// to the configured provider for delivery.
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/coastal-alert-service/internal/domain"
)

// MessageSender delivers a rendered SMS body to one recipient. The
// provider adapter owns the configured sender identity.
type MessageSender interface {
	Send(ctx context.Context, to, body string) error
}

// Field order is fixed: type, location, level, message.
const alertTemplate = `Coastal Threat Alert!
Type: %s
Location: %s
Level: %s
Message: %s
Stay safe and follow official instructions.`

// Gateway is the SMS gateway client.
type Gateway struct {
	sender MessageSender
	logger *slog.Logger
}

// New creates a Gateway sending through the given provider.
func New(sender MessageSender, logger *slog.Logger) *Gateway {
	return &Gateway{sender: sender, logger: logger}
}

// SendThreatAlert renders the alert body and submits it to the provider.
// A provider failure is logged with the recipient and returned to the
// caller; the gateway itself never retries.
func (g *Gateway) SendThreatAlert(ctx context.Context, p domain.AlertPayload) error {
	body := fmt.Sprintf(alertTemplate, p.ThreatType, p.Location, p.Level, p.Message)

	if err := g.sender.Send(ctx, p.Recipient, body); err != nil {
		g.logger.Error("sms send failed", "recipient", p.Recipient, "error", err)
		return fmt.Errorf("send sms to %s: %w", p.Recipient, err)
	}

	g.logger.Info("sms sent", "recipient", p.Recipient)
	return nil
}
