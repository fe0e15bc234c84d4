package waitlist

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeAccepted           = "accepted"
	OutcomeHoneypot           = "honeypot"
	OutcomeRateLimited        = "rate_limited"
	OutcomeMissing            = "invalid_missing"
	OutcomeMalformed          = "invalid_malformed"
	OutcomeStoreError         = "store_error"
	OutcomeLimiterUnavailable = "limiter_unavailable"
)

type Metrics struct {
	submissions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewMetrics registers the waitlist counters on reg. A nil reg keeps them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_submissions_total",
				Help: "Waitlist submissions by pipeline outcome.",
			},
			[]string{"outcome"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_notifications_total",
				Help: "Best-effort signup notifications by kind and result.",
			},
			[]string{"kind", "result"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.submissions, m.notifications)
	}
	return m
}

func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Notification(kind, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, result).Inc()
}
