// Package twilio implements the SMS provider adapter on the Twilio REST
// API.
package twilio

import (
	"context"
	"fmt"
	"time"

	twiliogo "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender sends SMS messages through Twilio. It implements
// gateway.MessageSender.
type Sender struct {
	client *twiliogo.RestClient
	from   string
}

// NewSender creates a Twilio sender. Credentials are not verified here;
// an invalid or missing account surfaces on the first send attempt.
func NewSender(accountSID, authToken, from string, timeout time.Duration) *Sender {
	client := twiliogo.NewRestClientWithParams(twiliogo.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	client.SetTimeout(timeout)
	return &Sender{client: client, from: from}
}

// Send submits one SMS. The Twilio SDK carries its own request timeout,
// so the context is only checked for early cancellation.
func (s *Sender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	return nil
}
