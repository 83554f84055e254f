package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderService is the order use case surface the handler needs
type OrderService interface {
	PlaceOrder(ctx context.Context, userID int64, items []order.CartItem) (*orderapp.PlaceOrderResponse, error)
	History(ctx context.Context, userID int64) ([]orderapp.OrderHistoryItem, error)
}

// OrderHandler serves checkout and order history
type OrderHandler struct {
	BaseHandler
	orderService OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CartItemRequest is one cart line
type CartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity"`
}

// PlaceOrderRequest is the checkout body. Emptiness and quantities are
// checked by the order domain so clients get EMPTY_CART / INVALID_QUANTITY.
type PlaceOrderRequest struct {
	Items []CartItemRequest `json:"items" binding:"dive"`
}

func (r PlaceOrderRequest) toCart() []order.CartItem {
	items := make([]order.CartItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = order.CartItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return items
}

// PlaceOrder handles POST /orders. Each call places a new order; the
// endpoint is not idempotent.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.orderService.PlaceOrder(c.Request.Context(), userID, req.toCart())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// History handles GET /orders/history
func (h *OrderHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	history, err := h.orderService.History(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}
