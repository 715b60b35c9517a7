package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/http/response"
	"github.com/yungbote/valuepm-backend/internal/portfolio"
)

type DeliverableHandler struct {
	pm *portfolio.Manager
}

func NewDeliverableHandler(pm *portfolio.Manager) *DeliverableHandler {
	return &DeliverableHandler{pm: pm}
}

type addDeliverableRequest struct {
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	ExpectedCompletion string             `json:"expected_completion"`
	ValueContribution  map[string]float64 `json:"value_contribution"`
	Status             string             `json:"status"`
}

type deliverableStatusRequest struct {
	Status string `json:"status"`
}

// POST /api/v1/projects/:id/deliverables
func (h *DeliverableHandler) AddDeliverable(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req addDeliverableRequest
	if !bindJSON(c, &req) {
		return
	}
	expected, err := parseDate(req.ExpectedCompletion)
	if err != nil {
		respondErr(c, err)
		return
	}
	d, err := h.pm.AddDeliverable(c.Request.Context(), id, value.DeliverableInput{
		Name:               req.Name,
		Description:        req.Description,
		ExpectedCompletion: expected,
		ValueContribution:  req.ValueContribution,
		Status:             req.Status,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"deliverable": d})
}

// GET /api/v1/projects/:id/deliverables
func (h *DeliverableHandler) ListDeliverables(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.pm.ListDeliverables(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deliverables": rows})
}

// PUT /api/v1/projects/:id/deliverables/:deliverableID/status
func (h *DeliverableHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	deliverableID, ok := uuidParam(c, "deliverableID")
	if !ok {
		return
	}
	var req deliverableStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := value.ParseDeliverableStatus(req.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	d, err := h.pm.UpdateDeliverableStatus(c.Request.Context(), id, deliverableID, status)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deliverable": d})
}
