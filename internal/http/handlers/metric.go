package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/http/response"
	"github.com/yungbote/valuepm-backend/internal/portfolio"
)

type MetricHandler struct {
	pm *portfolio.Manager
}

func NewMetricHandler(pm *portfolio.Manager) *MetricHandler {
	return &MetricHandler{pm: pm}
}

type addMetricRequest struct {
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	Category             string  `json:"category"`
	MetricType           string  `json:"metric_type"`
	BaselineValue        float64 `json:"baseline_value"`
	TargetValue          float64 `json:"target_value"`
	MeasurementFrequency string  `json:"measurement_frequency"`
	Unit                 string  `json:"unit"`
}

func (r addMetricRequest) definition() (value.MetricDefinition, error) {
	category, err := value.ParseValueCategory(r.Category)
	if err != nil {
		return value.MetricDefinition{}, err
	}
	metricType, err := value.ParseMetricType(r.MetricType)
	if err != nil {
		return value.MetricDefinition{}, err
	}
	freq, err := value.ParseMeasurementFrequency(r.MeasurementFrequency)
	if err != nil {
		return value.MetricDefinition{}, err
	}
	return value.MetricDefinition{
		Name:        r.Name,
		Description: r.Description,
		Category:    category,
		MetricType:  metricType,
		Baseline:    r.BaselineValue,
		Target:      r.TargetValue,
		Frequency:   freq,
		Unit:        r.Unit,
	}, nil
}

// GET /api/v1/projects/:id/metrics
func (h *MetricHandler) ListMetrics(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	metrics, err := h.pm.ListMetrics(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"metrics": metrics})
}

// POST /api/v1/projects/:id/metrics
func (h *MetricHandler) AddMetric(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req addMetricRequest
	if !bindJSON(c, &req) {
		return
	}
	def, err := req.definition()
	if err != nil {
		respondErr(c, err)
		return
	}
	m, err := h.pm.AddMetric(c.Request.Context(), id, def)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"metric": m})
}

// DELETE /api/v1/projects/:id/metrics/:metricID
// Deactivates the metric; its history is kept.
func (h *MetricHandler) DeactivateMetric(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	metricID, ok := uuidParam(c, "metricID")
	if !ok {
		return
	}
	m, err := h.pm.DeactivateMetric(c.Request.Context(), id, metricID)
	if err != nil {
		respondErr(c, err)
		return
	}
	m.Measurements = nil
	response.RespondOK(c, gin.H{"metric": m})
}
