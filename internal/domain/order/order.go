package order

import (
	"errors"
	"time"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Status represents the lifecycle status of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Order errors
var (
	ErrEmptyCart       = shared.NewDomainError("EMPTY_CART", "Cart cannot be empty")
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	ErrTotalOutOfRange = shared.NewDomainError("ORDER_TOTAL_OUT_OF_RANGE", "Order total exceeds the supported amount")
)

// CartItem is a requested (product, quantity) pair as submitted by the caller
type CartItem struct {
	ProductID int64
	Quantity  int
}

// ValidateCart checks the caller's cart before any storage is touched
func ValidateCart(items []CartItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity.WithDetail("productId", item.ProductID)
		}
	}
	return nil
}

// Item is an order line. UnitPrice is a snapshot of the product price at the
// time of purchase and is never updated afterwards.
type Item struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice valueobject.Money
}

// Amount returns UnitPrice * Quantity
func (i Item) Amount() (valueobject.Money, error) {
	return i.UnitPrice.MultiplyByQuantity(i.Quantity)
}

// Order is a placed order with its line items
type Order struct {
	ID          int64
	UserID      int64
	TotalAmount valueobject.Money
	Status      Status
	CreatedAt   time.Time
	Items       []Item
}

// Builder accumulates line items for a new order while stock is being taken
type Builder struct {
	userID int64
	items  []Item
	total  valueobject.Money
}

// NewBuilder starts a new order for userID
func NewBuilder(userID int64) *Builder {
	return &Builder{userID: userID}
}

// AddLine snapshots p's current price for qty units. A line or running
// total that does not fit in Money is rejected with ErrTotalOutOfRange and
// leaves the builder unchanged.
func (b *Builder) AddLine(p *catalog.Product, qty int) (Item, error) {
	item := Item{
		ProductID: p.ID,
		Quantity:  qty,
		UnitPrice: p.Price,
	}
	amount, err := item.Amount()
	if err == nil {
		amount, err = b.total.Add(amount)
	}
	if err != nil {
		if errors.Is(err, valueobject.ErrMoneyOverflow) {
			return Item{}, ErrTotalOutOfRange.WithDetail("productId", p.ID).WithCause(err)
		}
		return Item{}, err
	}
	b.items = append(b.items, item)
	b.total = amount
	return item, nil
}

// Build returns the order in paid status. It fails if no lines were added.
func (b *Builder) Build() (*Order, error) {
	if len(b.items) == 0 {
		return nil, ErrEmptyCart
	}
	items := make([]Item, len(b.items))
	copy(items, b.items)
	return &Order{
		UserID:      b.userID,
		TotalAmount: b.total,
		Status:      StatusPaid,
		CreatedAt:   time.Now(),
		Items:       items,
	}, nil
}

// Summary is the history view of an order
type Summary struct {
	ID          int64
	TotalAmount valueobject.Money
	Status      Status
	CreatedAt   time.Time
}
