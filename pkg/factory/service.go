package factory

import (
	"context"
	"time"

	"github.com/akeren/waitlist-foundry/pkg/ratelimit"
	"github.com/go-redis/redis/v8"
)

const waitlistKeyPrefix = "waitlist:"

type Cache interface {
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Logger   ratelimit.Logger
}

type RateLimiterFactory interface {
	// CreateRateLimiter may return nil when the limiter needs a backing store that is
	// not configured.
	CreateRateLimiter() ratelimit.RateLimiter
}

type DefaultRateLimiterFactory struct {
	config       *ratelimit.RateLimitConfig
	requireRedis bool
}

func redisClientFrom(cache Cache) *redis.Client {
	if cache == nil {
		return nil
	}
	if provider, ok := cache.(RedisClientProvider); ok {
		return provider.GetClient()
	}
	return nil
}

// NewSharedRateLimiterFactory builds limiters backed by the Redis behind cache. Without
// Redis the factory yields nil so callers can apply their own fallback policy.
func NewSharedRateLimiterFactory(requests int, window time.Duration, cache Cache, logger ratelimit.Logger) *DefaultRateLimiterFactory {
	return &DefaultRateLimiterFactory{
		config: &ratelimit.RateLimitConfig{
			Requests:  requests,
			Window:    window,
			Redis:     redisClientFrom(cache),
			Logger:    logger,
			KeyPrefix: waitlistKeyPrefix,
		},
		requireRedis: true,
	}
}

// NewLocalRateLimiterFactory builds per-process sliding-window limiters.
func NewLocalRateLimiterFactory(requests int, window time.Duration) *DefaultRateLimiterFactory {
	return &DefaultRateLimiterFactory{
		config: &ratelimit.RateLimitConfig{
			Requests:      requests,
			Window:        window,
			SlidingWindow: true,
		},
	}
}

func (f *DefaultRateLimiterFactory) CreateRateLimiter() ratelimit.RateLimiter {
	if f.requireRedis && f.config.Redis == nil {
		return nil
	}
	return ratelimit.NewRateLimiter(f.config)
}

type FactoryContainer struct {
	SharedRateLimiterFactory RateLimiterFactory
	LocalRateLimiterFactory  RateLimiterFactory
}

func NewFactoryContainer(rateLimitConfig *RateLimitConfig, cache Cache) *FactoryContainer {
	return &FactoryContainer{
		SharedRateLimiterFactory: NewSharedRateLimiterFactory(rateLimitConfig.Requests, rateLimitConfig.Window, cache, rateLimitConfig.Logger),
		LocalRateLimiterFactory:  NewLocalRateLimiterFactory(rateLimitConfig.Requests, rateLimitConfig.Window),
	}
}
