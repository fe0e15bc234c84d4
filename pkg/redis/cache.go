// Package redis wraps a go-redis client behind the small cache contract used by config.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-redis/redis/v8"
)

// Config describes either a URL-addressed deployment (redis:// or rediss://, as handed
// out by Upstash) or a plain host/port pair.
type Config struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache implements config.Cache and exposes the client to the rate limiters.
type RedisCache struct {
	client *redis.Client
}

// Options translates cfg into go-redis options. A non-empty Password overrides any
// password embedded in URL, which is how Upstash REST tokens are passed.
func (cfg *Config) Options() (*redis.Options, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if cfg.Password != "" {
			opts.Password = cfg.Password
		}
		return opts, nil
	}

	if cfg.Host == "" {
		return nil, errors.New("redis host is not configured")
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

func NewRedisCache(cfg *Config) (*RedisCache, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetClient() *redis.Client {
	return c.client
}
