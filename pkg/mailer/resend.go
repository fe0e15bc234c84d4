package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers mail through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
}

type ResendOption func(*resend.Client) error

// WithBaseURL points the client at another API host (tests, regional endpoints).
func WithBaseURL(raw string) ResendOption {
	return func(c *resend.Client) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse resend base url: %w", err)
		}
		c.BaseURL = u
		return nil
	}
}

func NewResendSender(apiKey string, opts ...ResendOption) (*ResendSender, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	client := resend.NewClient(apiKey)
	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}

	return &ResendSender{client: client}, nil
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	}
	if msg.Tag != "" {
		req.Tags = []resend.Tag{{Name: "category", Value: msg.Tag}}
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend send %q: %w", msg.Tag, err)
	}

	return nil
}
