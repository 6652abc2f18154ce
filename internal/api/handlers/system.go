package handlers

import (
	"net/http"
	"time"

	"circl/backend/internal/api"
	"circl/backend/internal/health"

	"github.com/gin-gonic/gin"
)

// SystemHandler handles health and metadata endpoints
type SystemHandler struct {
	checker *health.Checker
	started time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(checker *health.Checker) *SystemHandler {
	return &SystemHandler{
		checker: checker,
		started: time.Now(),
	}
}

// Health reports service and database health
// @Summary Health check
// @Description Reports whether the service and its database are reachable
// @Tags system
// @Produce json
// @Success 200 {object} api.APIResponse{data=health.Status} "Service healthy"
// @Failure 503 {object} api.APIResponse{data=health.Status} "Service degraded"
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	status := h.checker.Check(c.Request.Context())
	status.Uptime = time.Since(h.started).Round(time.Second).String()

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	api.SendSuccess(c, code, status, nil)
}
