package constants

import "time"

// ISO8601MillisFormat renders UTC instants the way browsers do (2006-01-02T15:04:05.000Z).
// Waitlist timestamps are written to every store in this format.
const ISO8601MillisFormat = "2006-01-02T15:04:05.000Z07:00"

// Default rate limiting configuration
const (
	// DefaultRateLimitRequests is the default number of requests allowed per time window
	DefaultRateLimitRequests = 100
	// DefaultRateLimitWindow is the default time window for rate limiting
	DefaultRateLimitWindowMinutes = 1
)

// DefaultRateLimitWindow returns the default rate limit window duration
func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}

// Waitlist submission defaults
const (
	WaitlistRateLimitRequests = 5
	WaitlistRateLimitWindow   = time.Minute

	UnknownClient    = "unknown"
	UnknownUserAgent = "unknown"
	DirectSource     = "direct"

	DefaultSheetsRange  = "Sheet1!A:D"
	DefaultProductName  = "CyberFist"
	DefaultAdminRealm   = "CyberFist Admin"
	WaitlistSignupEvent = "waitlist.signup"
)
