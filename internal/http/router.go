package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/valuepm-backend/internal/http/handlers"
	httpMW "github.com/yungbote/valuepm-backend/internal/http/middleware"
	"github.com/yungbote/valuepm-backend/internal/observability"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log          *logger.Logger
	ServiceName  string
	APIPrefix    string
	CORSOrigins  []string
	MaxBodyBytes int64
	Metrics      *observability.Metrics

	HealthHandler      *httpH.HealthHandler
	ProjectHandler     *httpH.ProjectHandler
	MetricHandler      *httpH.MetricHandler
	MeasurementHandler *httpH.MeasurementHandler
	StakeholderHandler *httpH.StakeholderHandler
	DeliverableHandler *httpH.DeliverableHandler
	TemplateHandler    *httpH.TemplateHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "valuepm"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.BodyLimit(cfg.MaxBodyBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	prefix := strings.TrimRight(strings.TrimSpace(cfg.APIPrefix), "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)
	{
		// Projects
		if cfg.ProjectHandler != nil {
			api.POST("/projects", cfg.ProjectHandler.CreateProject)
			api.GET("/projects", cfg.ProjectHandler.ListProjects)
			api.GET("/projects/:id", cfg.ProjectHandler.GetProject)
			api.PUT("/projects/:id", cfg.ProjectHandler.UpdateProject)
			api.DELETE("/projects/:id", cfg.ProjectHandler.DeleteProject)
			api.GET("/projects/:id/dashboard", cfg.ProjectHandler.GetDashboard)
			api.GET("/portfolio/overview", cfg.ProjectHandler.GetPortfolioOverview)
		}

		// Metrics
		if cfg.MetricHandler != nil {
			api.GET("/projects/:id/metrics", cfg.MetricHandler.ListMetrics)
			api.POST("/projects/:id/metrics", cfg.MetricHandler.AddMetric)
			api.DELETE("/projects/:id/metrics/:metricID", cfg.MetricHandler.DeactivateMetric)
		}

		// Measurements (append only)
		if cfg.MeasurementHandler != nil {
			api.POST("/projects/:id/measurements", cfg.MeasurementHandler.RecordMeasurement)
			api.GET("/projects/:id/measurements", cfg.MeasurementHandler.ListMeasurements)
		}

		// Stakeholders
		if cfg.StakeholderHandler != nil {
			api.POST("/projects/:id/stakeholders", cfg.StakeholderHandler.AddStakeholder)
			api.GET("/projects/:id/stakeholders", cfg.StakeholderHandler.ListStakeholders)
			api.DELETE("/projects/:id/stakeholders/:stakeholderID", cfg.StakeholderHandler.RemoveStakeholder)
		}

		// Deliverables
		if cfg.DeliverableHandler != nil {
			api.POST("/projects/:id/deliverables", cfg.DeliverableHandler.AddDeliverable)
			api.GET("/projects/:id/deliverables", cfg.DeliverableHandler.ListDeliverables)
			api.PUT("/projects/:id/deliverables/:deliverableID/status", cfg.DeliverableHandler.UpdateStatus)
		}

		// Templates
		if cfg.TemplateHandler != nil {
			api.GET("/templates", cfg.TemplateHandler.ListProjectTypes)
			api.GET("/templates/:type", cfg.TemplateHandler.GetTemplate)
		}
	}

	return r
}
