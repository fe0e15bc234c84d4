package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/akeren/waitlist-foundry/config/router"
	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/internal/models"
	"github.com/akeren/waitlist-foundry/pkg/constants"
	"github.com/akeren/waitlist-foundry/pkg/events"
	"github.com/akeren/waitlist-foundry/pkg/mailer"
)

const cleanupTimeout = 15 * time.Second

type ApplicationConfig struct {
	Store            *WaitlistStore
	RouterService    *router.RouterService
	Logger           *log.Logger
	Cache            Cache
	Config           *AppConfig
	Waitlist         *WaitlistSettings
	Sender           mailer.Sender
	MailerConfigured bool
	// Publisher is nil when signup events are disabled.
	Publisher       events.Publisher
	TracingShutdown func(context.Context) error

	shutdownHooks []shutdownHook
}

type shutdownHook struct {
	name string
	fn   func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

func NewAppConfig() *AppConfig {
	config := &AppConfig{
		RateLimitRequests: constants.DefaultRateLimitRequests,
		RateLimitWindow:   constants.DefaultRateLimitWindow(),
		RequestTimeout:    30 * time.Second, // Default request timeout
	}

	// Override from environment variables
	if reqStr := os.Getenv("RATE_LIMIT_REQUESTS"); reqStr != "" {
		if parsed, err := strconv.Atoi(reqStr); err == nil && parsed > 0 {
			config.RateLimitRequests = parsed
		}
	}

	if winStr := os.Getenv("RATE_LIMIT_WINDOW"); winStr != "" {
		if parsed, err := time.ParseDuration(winStr); err == nil && parsed > 0 {
			config.RateLimitWindow = parsed
		}
	}

	if timeoutStr := os.Getenv("REQUEST_TIMEOUT"); timeoutStr != "" {
		if parsed, err := time.ParseDuration(timeoutStr); err == nil && parsed > 0 {
			config.RequestTimeout = parsed
		}
	}

	return config
}

// OnShutdown registers fn to run at the start of Cleanup, before any infrastructure is
// closed. Hooks run in registration order.
func (ac *ApplicationConfig) OnShutdown(name string, fn func(context.Context) error) {
	ac.shutdownHooks = append(ac.shutdownHooks, shutdownHook{name: name, fn: fn})
}

func (ac *ApplicationConfig) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	for _, hook := range ac.shutdownHooks {
		if err := hook.fn(ctx); err != nil {
			ac.Logger.Error("Shutdown hook failed", "hook", hook.name, "error", err)
		}
	}

	if ac.Publisher != nil {
		if err := ac.Publisher.Close(); err != nil {
			ac.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if ac.TracingShutdown != nil {
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.Store != nil && ac.Store.DB != nil {
		CloseDatabase(ac.Store.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	store := OpenWaitlistStore(ctx, logger, NewStoreConfig(), autoMigrate, models.ModelRegistry...)

	appConfig := NewAppConfig()
	cache := NewCacheConfig().NewCacheOrNil(logger)

	mailCfg := NewMailConfig()
	sender := mailCfg.NewSender(logger)
	publisher := NewEventsConfig().NewPublisherOrNil(ctx, logger)

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully",
		"store", store.Backend,
		"store_usable", store.Usable(),
		"shared_rate_limit", cache != nil,
		"mailer", mailCfg.IsConfigured(),
		"events", publisher != nil,
	)

	return &ApplicationConfig{
		Store:            store,
		RouterService:    routerService,
		Logger:           logger,
		Cache:            cache,
		Config:           appConfig,
		Waitlist:         NewWaitlistSettings(),
		Sender:           sender,
		MailerConfigured: mailCfg.IsConfigured(),
		Publisher:        publisher,
		TracingShutdown:  tracingShutdown,
	}, nil
}
