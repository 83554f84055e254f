package persistence

import (
	"context"
	"fmt"

	apporder "github.com/storefront/backend/internal/application/order"
	apprating "github.com/storefront/backend/internal/application/rating"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/rating"
	"gorm.io/gorm"
)

// GormTransactionScope implements the order and rating transaction scopes
// with GORM transactions. The transaction commits when fn returns nil and
// rolls back on error or panic.
type GormTransactionScope struct {
	db          *gorm.DB
	lockTimeout string
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// WithLockTimeout issues stmt (a SET LOCAL statement) at the start of every
// transaction. An empty stmt disables it.
func (s *GormTransactionScope) WithLockTimeout(stmt string) *GormTransactionScope {
	s.lockTimeout = stmt
	return s
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.lockTimeout != "" {
			if err := tx.Exec(s.lockTimeout).Error; err != nil {
				return fmt.Errorf("set lock timeout: %w", err)
			}
		}
		return fn(tx)
	})
}

// OrderScope returns the scope used by order placement
func (s *GormTransactionScope) OrderScope() apporder.TransactionScope {
	return orderScope{s}
}

// RatingScope returns the scope used by rating writes
func (s *GormTransactionScope) RatingScope() apprating.TransactionScope {
	return ratingScope{s}
}

type orderScope struct{ s *GormTransactionScope }

func (o orderScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return o.s.run(ctx, func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type ratingScope struct{ s *GormTransactionScope }

func (r ratingScope) Execute(ctx context.Context, fn func(repos apprating.TransactionalRepositories) error) error {
	return r.s.run(ctx, func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductRepo() catalog.LockingProductRepository {
	return NewGormProductRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) OrderRepo() order.WriteRepository {
	return NewGormOrderRepository(r.tx)
}

// RatingRepo returns the rating repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RatingRepo() rating.WriteRepository {
	return NewGormRatingRepository(r.tx)
}

var (
	_ apporder.TransactionScope           = orderScope{}
	_ apprating.TransactionScope          = ratingScope{}
	_ apporder.TransactionalRepositories  = (*gormTransactionalRepositories)(nil)
	_ apprating.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
