package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/http/response"
)

type TemplateHandler struct{}

func NewTemplateHandler() *TemplateHandler { return &TemplateHandler{} }

// GET /api/v1/templates
func (h *TemplateHandler) ListProjectTypes(c *gin.Context) {
	response.RespondOK(c, gin.H{"project_types": value.ProjectTypes})
}

// GET /api/v1/templates/:type
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	pt, err := value.ParseProjectType(c.Param("type"))
	if err != nil {
		respondErr(c, err)
		return
	}
	defs, err := value.BuildMetricsFor(pt)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"project_type": pt, "metrics": defs})
}
