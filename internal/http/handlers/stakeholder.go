package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/http/response"
	"github.com/yungbote/valuepm-backend/internal/portfolio"
)

type StakeholderHandler struct {
	pm *portfolio.Manager
}

func NewStakeholderHandler(pm *portfolio.Manager) *StakeholderHandler {
	return &StakeholderHandler{pm: pm}
}

// POST /api/v1/projects/:id/stakeholders
func (h *StakeholderHandler) AddStakeholder(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var in value.StakeholderInput
	if !bindJSON(c, &in) {
		return
	}
	s, err := h.pm.AddStakeholder(c.Request.Context(), id, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"stakeholder": s})
}

// GET /api/v1/projects/:id/stakeholders
func (h *StakeholderHandler) ListStakeholders(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.pm.ListStakeholders(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stakeholders": rows})
}

// DELETE /api/v1/projects/:id/stakeholders/:stakeholderID
func (h *StakeholderHandler) RemoveStakeholder(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	stakeholderID, ok := uuidParam(c, "stakeholderID")
	if !ok {
		return
	}
	if err := h.pm.RemoveStakeholder(c.Request.Context(), id, stakeholderID); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
