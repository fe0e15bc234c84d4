package waitlist

import (
	"errors"

	"github.com/akeren/waitlist-foundry/pkg/mailer"
)

type ValidationReason string

const (
	ReasonMissing   ValidationReason = "missing"
	ReasonMalformed ValidationReason = "malformed"
)

// ValidationError is the only error whose message reaches the caller verbatim.
type ValidationError struct {
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	return "waitlist: email " + string(e.Reason)
}

func (e *ValidationError) UserMessage() string {
	if e.Reason == ReasonMissing {
		return MessageEmailRequired
	}
	return MessageEmailMalformed
}

var (
	ErrRateLimited            = errors.New("waitlist: rate limited")
	ErrStoreUnavailable       = errors.New("waitlist: store unavailable")
	ErrRateLimiterUnavailable = errors.New("waitlist: rate limiter unavailable")
	ErrMailerNotConfigured    = mailer.ErrNotConfigured
)

const (
	MessageEmailRequired      = "Email is required."
	MessageEmailMalformed     = "Please enter a valid email address."
	MessageTooManyRequests    = "Too many requests. Please try again later."
	MessageSomethingWentWrong = "Something went wrong. Please try again."
	MessageUnavailable        = "Waitlist is temporarily unavailable."
)
