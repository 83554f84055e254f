package catalog

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindInStock returns products with stock_quantity > 0, newest first
	FindInStock(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Count counts all products
	Count(ctx context.Context) (int64, error)
}

// LockingProductRepository is the product view available inside a
// transactional scope. FindByIDForUpdate holds an exclusive row lock until the
// scope commits or rolls back.
type LockingProductRepository interface {
	FindByIDForUpdate(ctx context.Context, id int64) (*Product, error)
	DecrementStock(ctx context.Context, id int64, qty int) error
	UpdateRatingStats(ctx context.Context, id int64, stats RatingStats) error
}
