package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/valuepm-backend/internal/http/response"
)

type HealthHandler struct {
	name    string
	version string
	ping    func(ctx context.Context) error
}

// NewHealthHandler reports unhealthy while ping fails. ping may be nil.
func NewHealthHandler(name, version string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{name: name, version: version, ping: ping}
}

// GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	response.RespondOK(c, gin.H{"status": "healthy"})
}

// GET /
func (h *HealthHandler) Root(c *gin.Context) {
	response.RespondOK(c, gin.H{"name": h.name, "version": h.version, "status": "running"})
}
