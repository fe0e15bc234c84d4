package domain

import (
	"github.com/akeren/waitlist-foundry/config"
	"github.com/akeren/waitlist-foundry/domain/admin"
	"github.com/akeren/waitlist-foundry/domain/monitoring"
	"github.com/akeren/waitlist-foundry/domain/waitlist"
	"github.com/akeren/waitlist-foundry/pkg/factory"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	settings := appConfig.Waitlist
	if settings == nil {
		settings = config.NewWaitlistSettings()
	}

	repository := NewWaitlistRepository(appConfig.Store)

	limiters := factory.NewFactoryContainer(&factory.RateLimitConfig{
		Requests: settings.RateLimitRequests,
		Window:   settings.RateLimitWindow,
		Logger:   appConfig.Logger,
	}, appConfig.Cache)

	waitlistFactory := waitlist.NewWaitlistServiceFactory(waitlist.Dependencies{
		Logger:        appConfig.Logger,
		Repository:    repository,
		Limiter:       limiters.SharedRateLimiterFactory.CreateRateLimiter(),
		Fallback:      waitlist.ParseFallbackPolicy(settings.RateLimitFallback),
		FallbackLocal: limiters.LocalRateLimiterFactory.CreateRateLimiter(),
		Sender:        appConfig.Sender,
		Publisher:     appConfig.Publisher,
		Notifications: waitlist.NotifierConfig{
			From:        settings.FromEmail,
			NotifyTo:    settings.NotifyEmail,
			ProductName: settings.ProductName,
		},
		NotifyTimeout: settings.NotifyTimeout,
		Registerer:    appConfig.RouterService.MetricsRegisterer(),
	})
	appConfig.OnShutdown("waitlist-notifications", waitlistFactory.Dispatcher().Drain)

	probes := monitoring.Probes{
		Store:            repository,
		MailerConfigured: appConfig.MailerConfigured,
		EventsConfigured: appConfig.Publisher != nil,
	}
	if appConfig.Cache != nil {
		probes.Cache = appConfig.Cache
	}

	appConfig.RouterService.MountController(monitoring.NewMonitoringControllerFactory(probes, appConfig.Logger).CreateController())
	appConfig.RouterService.MountController(waitlistFactory.CreateController())
	appConfig.RouterService.MountController(admin.NewAdminController(
		waitlistFactory.CreateService(),
		admin.Credentials{
			Username: settings.AdminUser,
			Password: settings.AdminPass,
			Realm:    settings.AdminRealm,
		},
		settings.ProductName,
		appConfig.Logger,
	))
}

// NewWaitlistRepository picks the repository for whatever store config opened. An
// unusable store still yields a repository so routes fail per request.
func NewWaitlistRepository(store *config.WaitlistStore) waitlist.WaitlistRepository {
	if store == nil {
		return waitlist.NewUnconfiguredRepository("none", "WAITLIST_STORE")
	}

	switch {
	case store.DB != nil:
		return waitlist.NewGormRepository(store.DB, store.Backend)
	case store.Sheets != nil:
		return waitlist.NewSheetsRepository(store.Sheets)
	default:
		return waitlist.NewUnconfiguredRepository(store.Backend, store.Missing...)
	}
}
