package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/storeadmin/backend/internal/application/inventory"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
)

// ActivityHandler serves the reconciled inventory activity feed
type ActivityHandler struct {
	BaseHandler
	service *appinventory.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(service *appinventory.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// RegisterRoutes registers activity routes
func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity", h.GetActivity)
}

// GetActivity godoc
// @ID           listActivity
// @Summary      List inventory activity
// @Description  Returns one page of inventory transactions with paired transfer legs merged into single transfer records
// @Tags         activity
// @Produce      json
// @Param        store_id  query int    false "Filter by store id"
// @Param        type      query string false "Filter by transaction type"
// @Param        search    query string false "Free-text search"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]any]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      504 {object} ErrorResponse
// @Router       /activity [get]
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	var req dto.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.GetActivity(c.Request.Context(), appinventory.ActivityQuery{
		StoreID:  req.StoreID,
		Type:     req.Type,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Meta)
}
