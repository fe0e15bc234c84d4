// Package mailer sends transactional email. Sender is the only contract callers need;
// the Resend binding, the circuit breaker and the unconfigured fallback all satisfy it.
package mailer

//go:generate mockgen -source=mailer.go -destination=mock_sender.go -package=mailer

import (
	"context"
	"errors"
	"strings"
)

// ErrNotConfigured is returned by the fallback sender when no provider credentials exist.
var ErrNotConfigured = errors.New("mailer is not configured")

// Message is a single outbound email. Text is required; HTML is optional.
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
	// Tag classifies the message for provider dashboards and logs.
	Tag string
}

func (m Message) Validate() error {
	if strings.TrimSpace(m.From) == "" {
		return errors.New("mailer: from address is required")
	}
	if len(m.To) == 0 {
		return errors.New("mailer: at least one recipient is required")
	}
	for _, to := range m.To {
		if strings.TrimSpace(to) == "" {
			return errors.New("mailer: recipient address is empty")
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("mailer: subject is required")
	}
	return nil
}

// Sender delivers one message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// UnconfiguredSender rejects every message with ErrNotConfigured.
type UnconfiguredSender struct{}

func (UnconfiguredSender) Send(context.Context, Message) error {
	return ErrNotConfigured
}
