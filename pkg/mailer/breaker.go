package mailer

import (
	"context"

	"github.com/akeren/waitlist-foundry/pkg/circuitbreaker"
)

// BreakerSender stops calling the provider after repeated failures and fails fast
// with circuitbreaker.ErrCircuitOpen until the recovery timeout elapses. It never
// re-sends a message.
type BreakerSender struct {
	next    Sender
	breaker circuitbreaker.CircuitBreaker
}

func NewBreakerSender(next Sender, breaker circuitbreaker.CircuitBreaker) *BreakerSender {
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker(nil)
	}
	return &BreakerSender{next: next, breaker: breaker}
}

func (s *BreakerSender) Send(ctx context.Context, msg Message) error {
	return s.breaker.Call(func() error {
		return s.next.Send(ctx, msg)
	})
}

func (s *BreakerSender) State() circuitbreaker.CircuitState {
	return s.breaker.State()
}
