package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
)

// SystemHandler handles liveness and readiness endpoints
type SystemHandler struct {
	BaseHandler
	appName   string
	version   string
	pageCache cache.PageCache
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(appName, version string, pageCache cache.PageCache) *SystemHandler {
	return &SystemHandler{
		appName:   appName,
		version:   version,
		pageCache: pageCache,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Name      string `json:"name" example:"storeadmin-backend"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// ReadyResponse represents the readiness check response
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks"`
}

// Health godoc
// @ID           getHealth
// @Summary      Liveness check
// @Description  Reports that the process is up
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(HealthResponse{
		Status:    "ok",
		Name:      h.appName,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}

// Ready godoc
// @ID           getReady
// @Summary      Readiness check
// @Description  Probes the page cache backend; a failing cache makes the gateway not ready
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[ReadyResponse]
// @Failure      503 {object} APIResponse[ReadyResponse]
// @Router       /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	checks := map[string]string{}
	status := http.StatusOK
	overall := "ready"

	if err := h.probeCache(c); err != nil {
		checks["cache"] = "down: " + err.Error()
		status = http.StatusServiceUnavailable
		overall = "not ready"
	} else {
		checks["cache"] = "ok (" + h.pageCache.Backend() + ")"
	}

	c.JSON(status, dto.NewSuccessResponse(ReadyResponse{
		Status: overall,
		Checks: checks,
	}))
}

func (h *SystemHandler) probeCache(c *gin.Context) error {
	ctx := c.Request.Context()
	if err := h.pageCache.Set(ctx, "storeadmin:probe", []byte("ok"), time.Second); err != nil {
		return err
	}
	_, _, err := h.pageCache.Get(ctx, "storeadmin:probe")
	return err
}
