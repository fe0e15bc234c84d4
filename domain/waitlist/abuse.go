package waitlist

import (
	"context"
	"strings"

	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/pkg/constants"
	"github.com/akeren/waitlist-foundry/pkg/ratelimit"
)

// FallbackPolicy decides what the filter does when the shared limiter is missing or
// erroring.
type FallbackPolicy string

const (
	// FallbackOpen allows the request and logs a warning.
	FallbackOpen FallbackPolicy = "open"
	// FallbackMemory counts in this process only.
	FallbackMemory FallbackPolicy = "memory"
	// FallbackClosed refuses the request with 503.
	FallbackClosed FallbackPolicy = "closed"
)

func ParseFallbackPolicy(raw string) FallbackPolicy {
	switch FallbackPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case FallbackMemory:
		return FallbackMemory
	case FallbackClosed:
		return FallbackClosed
	default:
		return FallbackOpen
	}
}

// ClientKey identifies the caller by the first address of X-Forwarded-For.
func ClientKey(forwardedFor string) string {
	first, _, _ := strings.Cut(forwardedFor, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return constants.UnknownClient
}

// HoneypotTripped reports whether the hidden field carries anything. Honest browsers
// never fill it, so any non-string value counts as filled too.
func HoneypotTripped(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	default:
		return true
	}
}

type AbuseFilter struct {
	limiter  ratelimit.RateLimiter
	fallback ratelimit.RateLimiter
	policy   FallbackPolicy
	logger   *log.Logger
}

// NewAbuseFilter accepts a nil limiter, meaning no shared counter is configured. The
// fallback limiter is only consulted under FallbackMemory.
func NewAbuseFilter(limiter, fallback ratelimit.RateLimiter, policy FallbackPolicy, logger *log.Logger) *AbuseFilter {
	if policy == FallbackMemory && fallback == nil {
		fallback = ratelimit.NewSlidingWindowRateLimiter(constants.WaitlistRateLimitRequests, constants.WaitlistRateLimitWindow)
	}
	return &AbuseFilter{
		limiter:  limiter,
		fallback: fallback,
		policy:   policy,
		logger:   logger,
	}
}

// CheckRate returns ErrRateLimited when the client has used up its window, or
// ErrRateLimiterUnavailable under FallbackClosed when no verdict can be reached.
func (f *AbuseFilter) CheckRate(ctx context.Context, clientKey string) error {
	logger := log.GetLoggerInstanceFromContext(ctx, f.logger)

	if f.limiter == nil {
		return f.degrade(ctx, logger, clientKey, nil)
	}

	limited, err := f.limiter.IsLimited(ctx, clientKey)
	if err != nil {
		return f.degrade(ctx, logger, clientKey, err)
	}
	if limited {
		logger.Warn("Waitlist rate limit exceeded", "client", clientKey)
		return ErrRateLimited
	}
	return nil
}

func (f *AbuseFilter) degrade(ctx context.Context, logger *log.Logger, clientKey string, cause error) error {
	args := []any{"policy", string(f.policy), "client", clientKey}
	if cause != nil {
		args = append(args, "error", cause)
	}

	switch f.policy {
	case FallbackClosed:
		logger.Error("Waitlist rate limiter unavailable; refusing submission", args...)
		return ErrRateLimiterUnavailable
	case FallbackMemory:
		logger.Warn("Waitlist rate limiter unavailable; using in-process window", args...)
		limited, err := f.fallback.IsLimited(ctx, clientKey)
		if err == nil && limited {
			return ErrRateLimited
		}
		return nil
	default:
		logger.Warn("Waitlist rate limiter unavailable; allowing submission", args...)
		return nil
	}
}
