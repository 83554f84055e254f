package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CodeProductNotFound is the error code for an unknown product id
const CodeProductNotFound = "PRODUCT_NOT_FOUND"

// ErrProductNotFound matches any product-not-found error via errors.Is
var ErrProductNotFound = shared.NewDomainError(CodeProductNotFound, "Product not found")

// Product represents a sellable item in the catalog.
// Stock is mutated by order placement and the rating fields by the rating
// aggregator; everything else is set by admins.
type Product struct {
	ID            int64
	Title         string
	Description   string
	Price         valueobject.Money
	StockQuantity int
	AverageRating decimal.Decimal
	ReviewCount   int
	CreatedAt     time.Time
}

// NewProduct creates a new product
func NewProduct(title, description string, price valueobject.Money, stock int) (*Product, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	return &Product{
		Title:         title,
		Description:   description,
		Price:         price,
		StockQuantity: stock,
		AverageRating: decimal.Zero,
		CreatedAt:     time.Now(),
	}, nil
}

// HasStock reports whether qty units can be taken from the product
func (p *Product) HasStock(qty int) bool {
	return qty <= p.StockQuantity
}

// InStock returns true if at least one unit is available
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// DecreaseStock removes qty units from stock.
// Stock never goes below zero.
func (p *Product) DecreaseStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !p.HasStock(qty) {
		return NewInsufficientStockError(p)
	}
	p.StockQuantity -= qty
	return nil
}

// ApplyRatingStats overwrites the cached rating aggregate
func (p *Product) ApplyRatingStats(stats RatingStats) {
	p.AverageRating = stats.Average
	p.ReviewCount = stats.Count
}

// RatingStats is the cached rating aggregate stored on a product
type RatingStats struct {
	Average decimal.Decimal
	Count   int
}

// NewRatingStats builds an aggregate from a raw mean, rounding to one decimal place
func NewRatingStats(mean decimal.Decimal, count int) RatingStats {
	if count == 0 {
		return RatingStats{Average: decimal.Zero}
	}
	return RatingStats{
		Average: mean.Round(1),
		Count:   count,
	}
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if len(title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot exceed 255 characters")
	}
	return nil
}

// NewProductNotFoundError reports a product id with no catalog row
func NewProductNotFoundError(id int64) *shared.DomainError {
	return shared.NewDomainError(CodeProductNotFound, fmt.Sprintf("Product %d not found", id)).
		WithDetail("productId", id)
}

// NewInsufficientStockError reports that p cannot cover a requested quantity
func NewInsufficientStockError(p *Product) *shared.DomainError {
	return shared.NewDomainError(
		shared.ErrInsufficientStock.Code,
		fmt.Sprintf("Insufficient stock for product %q: %d available", p.Title, p.StockQuantity),
	).
		WithDetail("productId", p.ID).
		WithDetail("available", p.StockQuantity)
}
