package order

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
)

// TransactionScope runs order placement as one atomic unit of work.
// The scope is acquired per call and always resolved before Execute returns:
// committed when fn returns nil, rolled back on error, panic or context
// cancellation.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories bound to one open scope.
// All of them share the same underlying database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository with row locking
	ProductRepo() catalog.LockingProductRepository
	// OrderRepo returns the order write repository
	OrderRepo() order.WriteRepository
}
