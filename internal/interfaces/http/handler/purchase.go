package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storeadmin/backend/internal/application/trade"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
)

// PurchaseHandler serves supplier purchase views
type PurchaseHandler struct {
	BaseHandler
	service *trade.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(service *trade.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

// RegisterRoutes registers purchase routes
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	purchases := rg.Group("/purchases")
	{
		purchases.GET("", h.GetPurchases)
		purchases.GET("/:id", h.GetPurchase)
	}
}

// GetPurchases godoc
// @ID           listPurchases
// @Summary      List purchases
// @Description  Returns one page of upstream supplier purchases
// @Tags         trade
// @Produce      json
// @Param        status    query string false "Filter by purchase status"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]any]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /purchases [get]
func (h *PurchaseHandler) GetPurchases(c *gin.Context) {
	var req dto.TradeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.GetPurchases(c.Request.Context(), trade.TradeQuery{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Meta)
}

// GetPurchase godoc
// @ID           getPurchase
// @Summary      Get a purchase
// @Description  Returns one purchase with its line items
// @Tags         trade
// @Produce      json
// @Param        id path int true "Purchase ID"
// @Success      200 {object} APIResponse[any]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /purchases/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	purchase, err := h.service.GetPurchase(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, purchase)
}
