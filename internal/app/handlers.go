package app

import (
	httpH "github.com/yungbote/valuepm-backend/internal/http/handlers"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Project     *httpH.ProjectHandler
	Metric      *httpH.MetricHandler
	Measurement *httpH.MeasurementHandler
	Stakeholder *httpH.StakeholderHandler
	Deliverable *httpH.DeliverableHandler
	Template    *httpH.TemplateHandler
}

func wireHandlers(log *logger.Logger, cfg Config, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	pm := services.Portfolio
	return Handlers{
		Health:      httpH.NewHealthHandler(ServiceName, cfg.Version, clients.ping),
		Project:     httpH.NewProjectHandler(pm),
		Metric:      httpH.NewMetricHandler(pm),
		Measurement: httpH.NewMeasurementHandler(pm),
		Stakeholder: httpH.NewStakeholderHandler(pm),
		Deliverable: httpH.NewDeliverableHandler(pm),
		Template:    httpH.NewTemplateHandler(),
	}
}
