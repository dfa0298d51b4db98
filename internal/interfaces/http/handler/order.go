package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storeadmin/backend/internal/application/trade"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
)

// OrderHandler serves sales order views
type OrderHandler struct {
	BaseHandler
	service *trade.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *trade.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.GetOrders)
		orders.GET("/:id", h.GetOrder)
	}
}

// GetOrders godoc
// @ID           listOrders
// @Summary      List sales orders
// @Description  Returns one page of upstream sales orders
// @Tags         trade
// @Produce      json
// @Param        status    query string false "Filter by order status"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]any]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var req dto.TradeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.GetOrders(c.Request.Context(), trade.TradeQuery{
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

// GetOrder godoc
// @ID           getOrder
// @Summary      Get a sales order
// @Description  Returns one sales order with its line items
// @Tags         trade
// @Produce      json
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[any]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
