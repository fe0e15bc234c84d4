package waitlist

import (
	"sync"
	"time"

	"github.com/akeren/waitlist-foundry/config/router"
	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/pkg/clock"
	"github.com/akeren/waitlist-foundry/pkg/events"
	"github.com/akeren/waitlist-foundry/pkg/mailer"
	"github.com/akeren/waitlist-foundry/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
)

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateController() *router.RESTController
	Dispatcher() *Dispatcher
}

// Dependencies are the collaborators the pipeline needs. Limiter may be nil when no
// shared counter is configured; Publisher may be nil when events are disabled.
type Dependencies struct {
	Logger        *log.Logger
	Repository    WaitlistRepository
	Limiter       ratelimit.RateLimiter
	Fallback      FallbackPolicy
	FallbackLocal ratelimit.RateLimiter
	Sender        mailer.Sender
	Publisher     events.Publisher
	Notifications NotifierConfig
	NotifyTimeout time.Duration
	Registerer    prometheus.Registerer
	Clock         clock.Clock
}

type DefaultWaitlistServiceFactory struct {
	deps       Dependencies
	once       sync.Once
	service    WaitlistService
	dispatcher *Dispatcher
}

func NewWaitlistServiceFactory(deps Dependencies) WaitlistServiceFactory {
	if deps.Sender == nil {
		deps.Sender = mailer.UnconfiguredSender{}
	}
	return &DefaultWaitlistServiceFactory{
		deps:       deps,
		dispatcher: NewDispatcher(deps.Logger, deps.NotifyTimeout),
	}
}

// CreateService builds the pipeline once; repeated calls share counters and the dispatcher.
func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	f.once.Do(func() {
		d := f.deps
		metrics := NewMetrics(d.Registerer)
		abuse := NewAbuseFilter(d.Limiter, d.FallbackLocal, d.Fallback, d.Logger)
		notifier := NewSignupNotifier(d.Sender, d.Publisher, f.dispatcher, d.Notifications, metrics, d.Logger)
		f.service = NewWaitlistService(d.Logger, d.Repository, abuse, notifier, metrics, d.Clock)
	})
	return f.service
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.CreateService())
}

func (f *DefaultWaitlistServiceFactory) Dispatcher() *Dispatcher {
	return f.dispatcher
}
