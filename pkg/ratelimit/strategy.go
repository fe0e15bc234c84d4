package ratelimit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

type Logger interface {
	Error(msg string, args ...interface{})
}

func generateUniqueID() string {
	bytes := make([]byte, 8)

	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// RateLimiter defines the strategy interface for rate limiting
type RateLimiter interface {
	GetLimitDetails() (int, time.Duration)
	IsLimited(ctx context.Context, key string) (bool, error)
	Close() error
}

// InMemoryRateLimiter implements token bucket rate limiting for single instances
type InMemoryRateLimiter struct {
	requests int
	window   time.Duration

	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	ops      uint64
}

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewInMemoryRateLimiter(requests int, window time.Duration) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		requests: requests,
		window:   window,
		limiters: make(map[string]*keyedLimiter),
	}
}

func (r *InMemoryRateLimiter) IsLimited(_ context.Context, key string) (bool, error) {
	if key == "" {
		key = "__empty__"
	}

	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.limiters[key]
	if !ok {
		rps := float64(r.requests) / r.window.Seconds()
		k = &keyedLimiter{
			limiter:  rate.NewLimiter(rate.Limit(rps), r.requests),
			lastSeen: now,
		}
		r.limiters[key] = k
	} else {
		k.lastSeen = now
	}

	// Opportunistic cleanup of keys idle for two windows.
	r.ops++
	if r.ops%1024 == 0 {
		cutoff := now.Add(-2 * r.window)
		for kKey, kVal := range r.limiters {
			if kVal.lastSeen.Before(cutoff) {
				delete(r.limiters, kKey)
			}
		}
	}

	return !k.limiter.Allow(), nil
}

func (r *InMemoryRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *InMemoryRateLimiter) Close() error {
	return nil
}

// SlidingWindowRateLimiter keeps a per-key log of accepted hits and allows at most
// `requests` of them inside any trailing `window`. Rejected hits are not recorded.
type SlidingWindowRateLimiter struct {
	requests int
	window   time.Duration
	now      func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
	ops  uint64
}

func NewSlidingWindowRateLimiter(requests int, window time.Duration) *SlidingWindowRateLimiter {
	return &SlidingWindowRateLimiter{
		requests: requests,
		window:   window,
		now:      time.Now,
		hits:     make(map[string][]time.Time),
	}
}

// WithClock swaps the time source; tests use it to move across window boundaries.
func (r *SlidingWindowRateLimiter) WithClock(now func() time.Time) *SlidingWindowRateLimiter {
	r.now = now
	return r
}

func (r *SlidingWindowRateLimiter) IsLimited(_ context.Context, key string) (bool, error) {
	if key == "" {
		key = "__empty__"
	}

	now := r.now()
	cutoff := now.Add(-r.window)

	r.mu.Lock()
	defer r.mu.Unlock()

	hits := pruneBefore(r.hits[key], cutoff)

	r.ops++
	if r.ops%1024 == 0 {
		for kKey, kHits := range r.hits {
			if kKey != key && len(pruneBefore(kHits, cutoff)) == 0 {
				delete(r.hits, kKey)
			}
		}
	}

	if len(hits) >= r.requests {
		r.hits[key] = hits
		return true, nil
	}

	r.hits[key] = append(hits, now)
	return false, nil
}

// pruneBefore drops hits at or before cutoff. hits is sorted ascending.
func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

func (r *SlidingWindowRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *SlidingWindowRateLimiter) Close() error {
	return nil
}

// slidingWindowScript trims the ZSET to the trailing window, then admits the hit
// only if fewer than limit members remain. Scores are unix milliseconds.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local expire = tonumber(ARGV[4])
	local memberId = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

	local count = redis.call('ZCARD', key)
	if count >= limit then
		return 1
	end

	redis.call('ZADD', key, now, memberId)
	redis.call('PEXPIRE', key, expire)

	return 0
`)

// RedisRateLimiter implements sliding window rate limiting for distributed systems
type RedisRateLimiter struct {
	client    *redis.Client
	requests  int
	window    time.Duration
	keyPrefix string
	logger    Logger
}

func NewRedisRateLimiter(client *redis.Client, requests int, window time.Duration, logger Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		requests:  requests,
		window:    window,
		keyPrefix: "ratelimit:",
		logger:    logger,
	}
}

// WithKeyPrefix namespaces keys so several limiters can share one Redis database.
func (r *RedisRateLimiter) WithKeyPrefix(prefix string) *RedisRateLimiter {
	r.keyPrefix = prefix
	return r
}

func (r *RedisRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *RedisRateLimiter) fullKey(key string) string {
	if r.keyPrefix != "" && !strings.HasPrefix(key, r.keyPrefix) {
		return r.keyPrefix + key
	}
	return key
}

func (r *RedisRateLimiter) IsLimited(ctx context.Context, key string) (bool, error) {
	fullKey := r.fullKey(key)
	now := time.Now().UnixMilli()

	result, err := slidingWindowScript.Run(
		ctx,
		r.client,
		[]string{fullKey},
		now,
		r.window.Milliseconds(),
		r.requests,
		(2 * r.window).Milliseconds(),
		generateUniqueID(),
	).Int64()
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Redis rate limit script execution failed", "key", fullKey, "error", err)
		}
		// Callers decide whether to fail open; never report "allowed" on error here.
		return false, fmt.Errorf("rate limiter Redis error: %w", err)
	}
	return result == 1, nil
}

// The Redis client is owned by the ApplicationConfig and closed there
func (r *RedisRateLimiter) Close() error {
	return nil
}

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Requests  int
	Window    time.Duration
	Redis     *redis.Client // Optional, if nil uses in-memory
	Logger    Logger        // Optional logger for Redis operations
	KeyPrefix string        // Optional Redis key namespace
	// SlidingWindow selects the exact in-memory sliding log instead of the token bucket
	// when Redis is nil.
	SlidingWindow bool
}

// NewRateLimiter creates a rate limiter based on configuration
func NewRateLimiter(config *RateLimitConfig) RateLimiter {
	if config.Redis != nil {
		limiter := NewRedisRateLimiter(config.Redis, config.Requests, config.Window, config.Logger)
		if config.KeyPrefix != "" {
			limiter.WithKeyPrefix(config.KeyPrefix)
		}
		return limiter
	}
	if config.SlidingWindow {
		return NewSlidingWindowRateLimiter(config.Requests, config.Window)
	}
	return NewInMemoryRateLimiter(config.Requests, config.Window)
}
