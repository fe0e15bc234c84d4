package config

import (
	"context"
	"os"

	"github.com/akeren/waitlist-foundry/internal/log"
	pkgredis "github.com/akeren/waitlist-foundry/pkg/redis"
	"github.com/akeren/waitlist-foundry/pkg/utils"
)

// Cache is the Redis deployment shared by the rate limiters.
type Cache interface {
	Ping(ctx context.Context) error
	Close() error
}

type CacheConfig struct {
	URL      string
	Host     string
	Port     string
	Password string
}

// NewCacheConfig prefers a URL-addressed deployment (UPSTASH_REDIS_URL, then REDIS_URL)
// and falls back to REDIS_HOST/REDIS_PORT.
func NewCacheConfig() *CacheConfig {
	return &CacheConfig{
		URL:      utils.FirstEnvTrimmed("UPSTASH_REDIS_URL", "REDIS_URL"),
		Host:     os.Getenv("REDIS_HOST"),
		Port:     utils.GetEnvOrDefault("REDIS_PORT", "6379"),
		Password: utils.FirstEnvTrimmed("UPSTASH_REDIS_TOKEN", "REDIS_PASSWORD"),
	}
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.URL != "" || cc.Host != ""
}

func (cc *CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		logger.Error("Cache (Redis) configuration is missing")
		return nil, ErrCacheNotConfigured
	}

	cfg := &pkgredis.Config{
		URL:      cc.URL,
		Host:     cc.Host,
		Port:     cc.Port,
		Password: cc.Password,
		DB:       0, // Always use DB 0 for cache
	}

	cache, err := pkgredis.NewRedisCache(cfg)
	if err != nil {
		logger.Error("Failed to create Cache (Redis)", "error", err)
		return nil, err
	}

	logger.Info("Cache (Redis) connected successfully")
	return cache, nil
}

func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("Cache (Redis) is not configured; proceeding without shared rate limiting")
		return nil
	}

	cache, err := cc.NewCache(logger)

	if err != nil {
		// Log error but don't fail - limiters apply their fallback policy
		logger.Error("Failed to create Cache (Redis)", "error", err)
		return nil
	}

	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		logger.Info("No cache provided; skipping cache close")
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}

var ErrCacheNotConfigured = &CacheError{Message: "cache url or host is not configured"}

type CacheError struct {
	Message string
}

func (e *CacheError) Error() string {
	return e.Message
}
