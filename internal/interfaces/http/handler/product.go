package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storeadmin/backend/internal/application/catalog"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
)

// ProductHandler serves the product directory
type ProductHandler struct {
	BaseHandler
	service *catalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service *catalog.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.GetProducts)
}

// GetProducts godoc
// @ID           listProducts
// @Summary      List products
// @Description  Returns one page of the upstream product catalog
// @Tags         catalog
// @Produce      json
// @Param        search    query string false "Free-text search"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]any]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req dto.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.GetProducts(c.Request.Context(), catalog.ProductQuery{
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
