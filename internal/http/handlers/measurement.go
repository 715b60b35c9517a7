package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/valuepm-backend/internal/data/store"
	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/http/response"
	"github.com/yungbote/valuepm-backend/internal/platform/apierr"
	"github.com/yungbote/valuepm-backend/internal/portfolio"
)

type MeasurementHandler struct {
	pm *portfolio.Manager
}

func NewMeasurementHandler(pm *portfolio.Manager) *MeasurementHandler {
	return &MeasurementHandler{pm: pm}
}

type recordMeasurementRequest struct {
	MetricID        string   `json:"metric_id"`
	Value           *float64 `json:"value"`
	Notes           string   `json:"notes"`
	ConfidenceLevel *float64 `json:"confidence_level"`
}

// POST /api/v1/projects/:id/measurements
func (h *MeasurementHandler) RecordMeasurement(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req recordMeasurementRequest
	if !bindJSON(c, &req) {
		return
	}
	metricID, err := uuid.Parse(req.MetricID)
	if err != nil {
		respondErr(c, apierr.BadRequest("invalid_metric_id", err))
		return
	}
	if req.Value == nil {
		respondErr(c, value.InvalidValue("record measurement", "value is required"))
		return
	}
	rec, err := h.pm.RecordMeasurement(c.Request.Context(), portfolio.RecordMeasurementInput{
		ProjectID:  id,
		MetricID:   metricID,
		Value:      *req.Value,
		Note:       req.Notes,
		Confidence: req.ConfidenceLevel,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"measurement": rec})
}

// GET /api/v1/projects/:id/measurements?metric_id=&start_date=&end_date=&limit=
func (h *MeasurementHandler) ListMeasurements(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	q := store.MeasurementQuery{ProjectID: id}
	if raw := c.Query("metric_id"); raw != "" {
		metricID, err := uuid.Parse(raw)
		if err != nil {
			respondErr(c, apierr.BadRequest("invalid_metric_id", err))
			return
		}
		q.MetricID = metricID
	}
	from, err := parseDate(c.Query("start_date"))
	if err != nil {
		respondErr(c, err)
		return
	}
	to, err := parseDate(c.Query("end_date"))
	if err != nil {
		respondErr(c, err)
		return
	}
	// a bare end date covers the whole day
	if to != nil && isDateOnly(c.Query("end_date")) {
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	q.From, q.To = from, to
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		respondErr(c, err)
		return
	}
	rows, err := h.pm.ListMeasurements(c.Request.Context(), q)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"measurements": rows, "count": len(rows)})
}
