package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storeadmin/backend/internal/application/store"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
)

// StoreHandler serves the store directory
type StoreHandler struct {
	BaseHandler
	service *store.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(service *store.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

// RegisterRoutes registers store routes
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stores", h.GetStores)
}

// GetStores godoc
// @ID           listStores
// @Summary      List stores
// @Description  Returns one page of the upstream store directory
// @Tags         store
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]any]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /stores [get]
func (h *StoreHandler) GetStores(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.GetStores(c.Request.Context(), store.StoreQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Meta)
}
