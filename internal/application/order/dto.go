package order

import (
	"time"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// PlaceOrderResponse is returned after a committed order placement
type PlaceOrderResponse struct {
	OrderID int64             `json:"orderId"`
	Total   valueobject.Money `json:"total"`
}

// OrderHistoryItem is one entry of a user's order history
type OrderHistoryItem struct {
	ID          int64             `json:"id"`
	TotalAmount valueobject.Money `json:"total_amount"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ToOrderHistoryItem converts a domain order summary
func ToOrderHistoryItem(s order.Summary) OrderHistoryItem {
	return OrderHistoryItem{
		ID:          s.ID,
		TotalAmount: s.TotalAmount,
		Status:      s.Status.String(),
		CreatedAt:   s.CreatedAt,
	}
}

// ToOrderHistory converts a slice of summaries, never returning nil
func ToOrderHistory(summaries []order.Summary) []OrderHistoryItem {
	items := make([]OrderHistoryItem, len(summaries))
	for i, s := range summaries {
		items[i] = ToOrderHistoryItem(s)
	}
	return items
}
