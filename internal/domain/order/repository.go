package order

import (
	"context"
)

// Repository defines read access to orders
type Repository interface {
	// FindHistoryByUser returns the user's orders newest first
	FindHistoryByUser(ctx context.Context, userID int64) ([]Summary, error)

	// Count counts all orders
	Count(ctx context.Context) (int64, error)

	// CountByStatus counts orders in the given status
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

// WriteRepository persists a new order together with its items. It is only
// reachable inside a transactional scope.
type WriteRepository interface {
	Create(ctx context.Context, o *Order) error
}
