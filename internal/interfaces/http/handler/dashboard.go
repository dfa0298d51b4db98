package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storeadmin/backend/internal/application/report"
)

// DashboardHandler serves the dashboard summary
type DashboardHandler struct {
	BaseHandler
	service *report.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *report.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/summary", h.GetSummary)
}

// GetSummary godoc
// @ID           getDashboardSummary
// @Summary      Get the dashboard summary
// @Description  Returns the dashboard tiles; panels whose upstream fetch failed come back null and are listed in degraded
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} APIResponse[any]
// @Router       /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary := h.service.GetSummary(c.Request.Context())
	h.Success(c, summary)
}
