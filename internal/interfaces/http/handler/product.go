package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ProductService is the catalog use case surface the handler needs
type ProductService interface {
	ListInStock(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductListItem, error)
	GetByID(ctx context.Context, id int64) (*catalogapp.ProductListItem, error)
}

// ProductHandler serves the public catalog
type ProductHandler struct {
	BaseHandler
	productService ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles GET /products: purchasable products, newest first
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	products, err := h.productService.ListInStock(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 100
	}
	h.SuccessWithMeta(c, products, page, pageSize, len(products))
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "id must be a positive integer")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
