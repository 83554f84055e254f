package rating

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/rating"
)

// TransactionScope runs a rating write and the aggregate recompute atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories share one open database transaction
type TransactionalRepositories interface {
	ProductRepo() catalog.LockingProductRepository
	RatingRepo() rating.WriteRepository
}
