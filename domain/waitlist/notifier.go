package waitlist

//go:generate mockgen -source=notifier.go -destination=mock_notifier.go -package=waitlist

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/internal/models"
	"github.com/akeren/waitlist-foundry/pkg/circuitbreaker"
	"github.com/akeren/waitlist-foundry/pkg/constants"
	"github.com/akeren/waitlist-foundry/pkg/events"
	"github.com/akeren/waitlist-foundry/pkg/mailer"
	"github.com/google/uuid"
)

// Notifier fans out side effects of an accepted signup. NotifySignup must return
// without waiting for delivery and must never report failure to the caller.
type Notifier interface {
	NotifySignup(ctx context.Context, entry *models.WaitlistEntry)
}

type NotifierConfig struct {
	From        string
	NotifyTo    string
	ProductName string
}

const (
	notifyInternal = "internal"
	notifyWelcome  = "welcome"
	notifyEvent    = "event"
)

type SignupNotifier struct {
	sender     mailer.Sender
	publisher  events.Publisher
	dispatcher *Dispatcher
	cfg        NotifierConfig
	metrics    *Metrics
	logger     *log.Logger
}

// NewSignupNotifier wires the two emails and, when publisher is non-nil, the signup event.
func NewSignupNotifier(
	sender mailer.Sender,
	publisher events.Publisher,
	dispatcher *Dispatcher,
	cfg NotifierConfig,
	metrics *Metrics,
	logger *log.Logger,
) *SignupNotifier {
	if cfg.ProductName == "" {
		cfg.ProductName = constants.DefaultProductName
	}
	return &SignupNotifier{
		sender:     sender,
		publisher:  publisher,
		dispatcher: dispatcher,
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

func (n *SignupNotifier) NotifySignup(ctx context.Context, entry *models.WaitlistEntry) {
	if entry == nil {
		return
	}
	snapshot := *entry

	if n.cfg.NotifyTo == "" {
		n.metrics.Notification(notifyInternal, "skipped")
		log.GetLoggerInstanceFromContext(ctx, n.logger).Info("Internal signup notification skipped; WAITLIST_NOTIFY_EMAIL not set")
	} else {
		n.dispatch(ctx, notifyInternal, func(ctx context.Context) error {
			return n.sender.Send(ctx, n.internalMessage(&snapshot))
		})
	}

	n.dispatch(ctx, notifyWelcome, func(ctx context.Context) error {
		return n.sender.Send(ctx, n.welcomeMessage(&snapshot))
	})

	if n.publisher != nil {
		n.dispatch(ctx, notifyEvent, func(ctx context.Context) error {
			_, err := n.publisher.Publish(ctx, constants.WaitlistSignupEvent, newSignupEvent(&snapshot))
			return err
		})
	}
}

func (n *SignupNotifier) dispatch(ctx context.Context, kind string, send func(context.Context) error) {
	n.dispatcher.Go(ctx, "waitlist."+kind, func(ctx context.Context) error {
		err := send(ctx)
		n.metrics.Notification(kind, notificationResult(err))
		if err != nil {
			return fmt.Errorf("%s notification: %w", kind, err)
		}
		log.GetLoggerInstanceFromContext(ctx, n.logger).Info("Signup notification sent", "kind", kind)
		return nil
	})
}

func notificationResult(err error) string {
	switch {
	case err == nil:
		return "sent"
	case errors.Is(err, mailer.ErrNotConfigured):
		return "skipped"
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return "circuit_open"
	default:
		return "failed"
	}
}

func (n *SignupNotifier) internalMessage(entry *models.WaitlistEntry) mailer.Message {
	var body strings.Builder
	fmt.Fprintf(&body, "New %s waitlist signup\n\n", n.cfg.ProductName)
	fmt.Fprintf(&body, "Time (UTC): %s\n", entry.FormattedTimestamp())
	fmt.Fprintf(&body, "Email: %s\n", entry.Email)
	fmt.Fprintf(&body, "Source: %s\n", entry.Source)
	fmt.Fprintf(&body, "User agent: %s\n", entry.UserAgent)

	return mailer.Message{
		From:    n.cfg.From,
		To:      []string{n.cfg.NotifyTo},
		Subject: "New waitlist signup: " + entry.Email,
		Text:    body.String(),
		Tag:     notifyInternal,
	}
}

func (n *SignupNotifier) welcomeMessage(entry *models.WaitlistEntry) mailer.Message {
	product := n.cfg.ProductName
	text := fmt.Sprintf(
		"Thanks for joining the %s waitlist.\n\nWe'll email you at %s as soon as your spot opens up.\n",
		product, entry.Email,
	)
	htmlBody := fmt.Sprintf(
		"<p>Thanks for joining the <strong>%s</strong> waitlist.</p><p>We'll email you at %s as soon as your spot opens up.</p>",
		html.EscapeString(product), html.EscapeString(entry.Email),
	)

	return mailer.Message{
		From:    n.cfg.From,
		To:      []string{entry.Email},
		Subject: fmt.Sprintf("You're on the %s waitlist", product),
		Text:    text,
		HTML:    htmlBody,
		Tag:     notifyWelcome,
	}
}

// SignupEvent is the Pub/Sub payload for an accepted signup.
type SignupEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Email     string `json:"email"`
	Source    string `json:"source"`
}

func newSignupEvent(entry *models.WaitlistEntry) SignupEvent {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return SignupEvent{
		ID:        id.String(),
		Type:      constants.WaitlistSignupEvent,
		Timestamp: entry.FormattedTimestamp(),
		Email:     entry.Email,
		Source:    entry.Source,
	}
}
