package config

import (
	"time"

	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/pkg/circuitbreaker"
	"github.com/akeren/waitlist-foundry/pkg/mailer"
	"github.com/akeren/waitlist-foundry/pkg/utils"
)

const defaultFromAddress = "onboarding@resend.dev"

type MailConfig struct {
	APIKey  string
	BaseURL string

	BreakerFailureThreshold int
	BreakerRecoveryTimeout  time.Duration
}

func NewMailConfig() *MailConfig {
	return &MailConfig{
		APIKey:                  sanitizeEnv(utils.GetEnvTrimmed("RESEND_API_KEY")),
		BaseURL:                 utils.GetEnvTrimmed("RESEND_BASE_URL"),
		BreakerFailureThreshold: utils.GetEnvPositiveInt("MAIL_BREAKER_FAILURES", 5),
		BreakerRecoveryTimeout:  utils.GetEnvPositiveDuration("MAIL_BREAKER_COOLDOWN", time.Minute),
	}
}

func (mc *MailConfig) IsConfigured() bool {
	return mc.APIKey != ""
}

// NewSender returns the Resend client behind a circuit breaker, or the unconfigured
// sender when no API key is set. Signups keep working either way.
func (mc *MailConfig) NewSender(logger *log.Logger) mailer.Sender {
	if !mc.IsConfigured() {
		logger.Warn("RESEND_API_KEY not set; waitlist emails are disabled")
		return mailer.UnconfiguredSender{}
	}

	var opts []mailer.ResendOption
	if mc.BaseURL != "" {
		opts = append(opts, mailer.WithBaseURL(mc.BaseURL))
	}

	resendSender, err := mailer.NewResendSender(mc.APIKey, opts...)
	if err != nil {
		logger.Error("Failed to create Resend client; waitlist emails are disabled", "error", err)
		return mailer.UnconfiguredSender{}
	}

	breaker := circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
		FailureThreshold: mc.BreakerFailureThreshold,
		RecoveryTimeout:  mc.BreakerRecoveryTimeout,
		SuccessThreshold: 1,
		OnStateChange: func(from, to circuitbreaker.CircuitState) {
			logger.Warn("Mail circuit breaker changed state", "from", from.String(), "to", to.String())
		},
	})

	logger.Info("Mailer configured", "provider", "resend")
	return mailer.NewBreakerSender(resendSender, breaker)
}
