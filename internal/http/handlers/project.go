package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/http/response"
	"github.com/yungbote/valuepm-backend/internal/platform/apierr"
	"github.com/yungbote/valuepm-backend/internal/portfolio"
)

type ProjectHandler struct {
	pm *portfolio.Manager
}

func NewProjectHandler(pm *portfolio.Manager) *ProjectHandler {
	return &ProjectHandler{pm: pm}
}

type createProjectRequest struct {
	Name                string  `json:"name"`
	ProjectType         string  `json:"project_type"`
	Description         string  `json:"description"`
	BusinessCase        string  `json:"business_case"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	EstimatedTotalValue float64 `json:"estimated_total_value"`
	Status              string  `json:"status"`
	UseTemplate         *bool   `json:"use_template"`
}

type updateProjectRequest struct {
	Name                *string  `json:"name"`
	Description         *string  `json:"description"`
	BusinessCase        *string  `json:"business_case"`
	Status              *string  `json:"status"`
	StartDate           *string  `json:"start_date"`
	EndDate             *string  `json:"end_date"`
	EstimatedTotalValue *float64 `json:"estimated_total_value"`
}

// POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		respondErr(c, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		respondErr(c, err)
		return
	}
	id, err := h.pm.CreateProject(c.Request.Context(), portfolio.CreateProjectInput{
		Name:                req.Name,
		ProjectType:         req.ProjectType,
		Description:         req.Description,
		BusinessCase:        req.BusinessCase,
		StartDate:           start,
		EndDate:             end,
		EstimatedTotalValue: req.EstimatedTotalValue,
		Status:              req.Status,
		UseTemplate:         req.UseTemplate,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	p, err := h.pm.GetProject(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"project": p})
}

// GET /api/v1/projects?offset=&limit=
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	offset, err := queryInt(c, "offset")
	if err != nil {
		respondErr(c, err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondErr(c, err)
		return
	}
	page, err := h.pm.ListProjects(c.Request.Context(), portfolio.ListOptions{Offset: offset, Limit: limit})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := h.pm.GetProject(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	for _, m := range p.Metrics {
		m.Measurements = nil
	}
	response.RespondOK(c, gin.H{"project": p})
}

// PUT /api/v1/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req updateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	u := value.ProjectUpdate{
		Name:                req.Name,
		Description:         req.Description,
		BusinessCase:        req.BusinessCase,
		EstimatedTotalValue: req.EstimatedTotalValue,
	}
	if req.Status != nil {
		status, err := value.ParseProjectStatus(*req.Status)
		if err != nil {
			respondErr(c, err)
			return
		}
		u.Status = &status
	}
	var err error
	if req.StartDate != nil {
		if u.StartDate, err = parseDate(*req.StartDate); err != nil {
			respondErr(c, err)
			return
		}
	}
	if req.EndDate != nil {
		if u.EndDate, err = parseDate(*req.EndDate); err != nil {
			respondErr(c, err)
			return
		}
	}
	p, err := h.pm.UpdateProject(c.Request.Context(), id, u)
	if err != nil {
		respondErr(c, err)
		return
	}
	for _, m := range p.Metrics {
		m.Measurements = nil
	}
	response.RespondOK(c, gin.H{"project": p})
}

// DELETE /api/v1/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.pm.DeleteProject(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/projects/:id/dashboard
func (h *ProjectHandler) GetDashboard(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	d, err := h.pm.GetValueDashboard(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, d)
}

// GET /api/v1/portfolio/overview
func (h *ProjectHandler) GetPortfolioOverview(c *gin.Context) {
	ov, err := h.pm.GetPortfolioOverview(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, ov)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apierr.BadRequest("invalid_"+key, value.InvalidValue("parse query", "%s must be a non-negative integer", key))
	}
	return n, nil
}
