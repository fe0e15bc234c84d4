package config

import (
	"strings"
	"time"

	"github.com/akeren/waitlist-foundry/pkg/constants"
	"github.com/akeren/waitlist-foundry/pkg/utils"
)

// WaitlistSettings are the knobs of the submission pipeline and the admin page.
type WaitlistSettings struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// RateLimitFallback is one of open, memory or closed.
	RateLimitFallback string

	FromEmail     string
	NotifyEmail   string
	ProductName   string
	NotifyTimeout time.Duration

	AdminUser  string
	AdminPass  string
	AdminRealm string
}

func NewWaitlistSettings() *WaitlistSettings {
	return &WaitlistSettings{
		RateLimitRequests: utils.GetEnvPositiveInt("WAITLIST_RATE_LIMIT_REQUESTS", constants.WaitlistRateLimitRequests),
		RateLimitWindow:   utils.GetEnvPositiveDuration("WAITLIST_RATE_LIMIT_WINDOW", constants.WaitlistRateLimitWindow),
		RateLimitFallback: strings.ToLower(utils.GetEnvTrimmedOrDefault("WAITLIST_RATE_LIMIT_FALLBACK", "open")),

		FromEmail:     utils.GetEnvTrimmedOrDefault("WAITLIST_FROM_EMAIL", defaultFromAddress),
		NotifyEmail:   utils.GetEnvTrimmed("WAITLIST_NOTIFY_EMAIL"),
		ProductName:   utils.GetEnvTrimmedOrDefault("WAITLIST_PRODUCT_NAME", constants.DefaultProductName),
		NotifyTimeout: utils.GetEnvPositiveDuration("WAITLIST_NOTIFY_TIMEOUT", 15*time.Second),

		AdminUser:  sanitizeEnv(utils.GetEnvTrimmed("ADMIN_USER")),
		AdminPass:  sanitizeEnv(utils.GetEnvTrimmed("ADMIN_PASS")),
		AdminRealm: utils.GetEnvTrimmedOrDefault("ADMIN_REALM", constants.DefaultAdminRealm),
	}
}
