package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedOptions controls what Seed inserts
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	// DemoProducts are only inserted into an empty catalog
	DemoProducts int
	// RandSeed makes the generated catalog reproducible; 0 picks a random one
	RandSeed uint64
}

// SeedResult reports what Seed actually inserted
type SeedResult struct {
	AdminCreated    bool
	ProductsCreated int
}

// Seed creates the admin account and a demo catalog. It is safe to re-run:
// an existing admin email and a non-empty catalog are left untouched.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions, logger *zap.Logger) (*SeedResult, error) {
	result := &SeedResult{}
	users := NewGormUserRepository(db)
	products := NewGormProductRepository(db)

	if opts.AdminEmail != "" {
		_, err := users.FindByEmail(ctx, opts.AdminEmail)
		switch {
		case err == nil:
			logger.Info("Admin user already exists", zap.String("email", opts.AdminEmail))
		case errors.Is(err, shared.ErrNotFound):
			admin, err := identity.NewUser(opts.AdminEmail, opts.AdminPassword, identity.RoleAdmin)
			if err != nil {
				return nil, err
			}
			if err := users.Create(ctx, admin); err != nil {
				return nil, fmt.Errorf("create admin: %w", err)
			}
			result.AdminCreated = true
			logger.Info("Admin user created", zap.String("email", admin.Email), zap.Int64("user_id", admin.ID))
		default:
			return nil, fmt.Errorf("look up admin: %w", err)
		}
	}

	if opts.DemoProducts <= 0 {
		return result, nil
	}
	count, err := products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		logger.Info("Catalog not empty, skipping demo products", zap.Int64("products", count))
		return result, nil
	}

	faker := gofakeit.New(opts.RandSeed)
	for i := 0; i < opts.DemoProducts; i++ {
		price, err := valueobject.NewMoneyFromDecimal(decimal.NewFromFloat(faker.Price(1, 200)).Round(2))
		if err != nil {
			return nil, err
		}
		p, err := catalog.NewProduct(faker.ProductName(), faker.ProductDescription(), price, faker.IntRange(0, 50))
		if err != nil {
			return nil, err
		}
		if err := products.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("save demo product: %w", err)
		}
		result.ProductsCreated++
	}
	logger.Info("Demo products created", zap.Int("count", result.ProductsCreated))

	return result, nil
}
