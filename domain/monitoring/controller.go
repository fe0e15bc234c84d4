package monitoring

import (
	"context"
	"time"

	"github.com/akeren/waitlist-foundry/config/router"
	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/pkg/ratelimit"
)

const healthCheckTimeout = 3 * time.Second

type Cache interface {
	Ping(ctx context.Context) error
}

// Store is the waitlist backing store as seen by health checks.
type Store interface {
	Ping(ctx context.Context) error
	Backend() string
}

type HealthStatus struct {
	Store        int    `json:"store"` // 1 = reachable, 0 = unreachable/not configured
	StoreBackend string `json:"store_backend"`
	Cache        int    `json:"cache"`  // 1 = healthy, 0 = unhealthy/not configured
	Mailer       int    `json:"mailer"` // 1 = configured, 0 = notifications disabled
	Events       int    `json:"events"` // 1 = configured, 0 = disabled
	Uptime       int    `json:"uptime"` // uptime in seconds
}

// Probes bundles what the health endpoint inspects. Nil fields count as not configured.
type Probes struct {
	Store            Store
	Cache            Cache
	MailerConfigured bool
	EventsConfigured bool
}

type MonitoringController struct {
	probes    Probes
	logger    *log.Logger
	startTime time.Time
}

func NewMonitoringController(probes Probes, logger *log.Logger) *router.RESTController {
	ctrl := &MonitoringController{
		probes:    probes,
		logger:    logger,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {

			monitoringRateLimiter := createMonitoringRateLimiter()

			routerService.AddGetHandler(controller, monitoringRateLimiter, "", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.monitor(c)
			})

			routerService.AddGetHandler(controller, monitoringRateLimiter, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func createMonitoringRateLimiter() ratelimit.RateLimiter {

	const monitoringRequestsPerMinute = 10 // More restrictive than default 100

	config := &ratelimit.RateLimitConfig{
		Requests: monitoringRequestsPerMinute,
		Window:   time.Minute,
	}

	return ratelimit.NewRateLimiter(config)
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	logger.Info("Health check endpoint called")

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()
	healthStatus := ctrl.performHealthChecks(ctx, logger)

	return &router.ServiceResult{
		StatusCode: 200,
		Data:       healthStatus,
		Message:    "waitlist health check completed",
	}
}

func (ctrl *MonitoringController) monitor(
	c *router.RequestContext,
) *router.ServiceResult {
	return &router.ServiceResult{
		StatusCode: 200,
		Data:       "Monitoring endpoint is operational.",
		Message:    "Monitoring successful",
	}
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	checkStoreConnectivity(ctx, ctrl, &status, logger)

	checkCacheConnectivity(ctx, ctrl, &status, logger)

	if ctrl.probes.MailerConfigured {
		status.Mailer = 1
	}
	if ctrl.probes.EventsConfigured {
		status.Events = 1
	}

	return status
}

func checkCacheConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.probes.Cache == nil {
		status.Cache = 0
		logger.Info("Cache not configured, cache health check skipped")
		return
	}

	if ctrl.probes.Cache.Ping(ctx) == nil {
		status.Cache = 1
		logger.Info("Cache health check passed")
	} else {
		status.Cache = 0
		logger.Error("Cache health check failed")
	}
}

func checkStoreConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.probes.Store == nil {
		logger.Error("Waitlist store not wired")
		return
	}

	status.StoreBackend = ctrl.probes.Store.Backend()
	if err := ctrl.probes.Store.Ping(ctx); err != nil {
		status.Store = 0
		logger.Error("Store health check failed", "backend", status.StoreBackend, "error", err)
		return
	}

	status.Store = 1
	logger.Info("Store health check passed", "backend", status.StoreBackend)
}
