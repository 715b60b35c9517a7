package app

import (
	"github.com/gin-gonic/gin"

	server "github.com/yungbote/valuepm-backend/internal/http"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, services Services, handlers Handlers) *server.Server {
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return server.NewServer(server.RouterConfig{
		Log:                log.With("component", "http"),
		ServiceName:        cfg.Otel.ServiceName,
		APIPrefix:          cfg.APIPrefix,
		CORSOrigins:        cfg.CORSOrigins,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		Metrics:            services.Metrics,
		HealthHandler:      handlers.Health,
		ProjectHandler:     handlers.Project,
		MetricHandler:      handlers.Metric,
		MeasurementHandler: handlers.Measurement,
		StakeholderHandler: handlers.Stakeholder,
		DeliverableHandler: handlers.Deliverable,
		TemplateHandler:    handlers.Template,
	})
}
