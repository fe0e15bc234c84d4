package monitoring

import (
	"github.com/akeren/waitlist-foundry/config/router"
	"github.com/akeren/waitlist-foundry/internal/log"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	probes Probes
	logger *log.Logger
}

func NewMonitoringControllerFactory(probes Probes, logger *log.Logger) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		probes: probes,
		logger: logger,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.probes, f.logger)
}
