package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements the catalog repositories using GORM.
// Bound to a transaction it also serves as the locking repository.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NewProductNotFoundError(id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate reads a product row and holds an exclusive lock on it
// until the surrounding transaction ends
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Find(&model)
	if result.Error != nil {
		return nil, fmt.Errorf("lock product %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, catalog.NewProductNotFoundError(id)
	}
	return model.ToDomain(), nil
}

// DecrementStock subtracts qty from a product's stock
func (r *GormProductRepository) DecrementStock(ctx context.Context, id int64, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", id).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if result.Error != nil {
		return fmt.Errorf("decrement stock of product %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.NewProductNotFoundError(id)
	}
	return nil
}

// UpdateRatingStats writes the cached rating aggregate
func (r *GormProductRepository) UpdateRatingStats(ctx context.Context, id int64, stats catalog.RatingStats) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"average_rating": stats.Average,
			"review_count":   stats.Count,
		})
	if result.Error != nil {
		return fmt.Errorf("update rating stats of product %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.NewProductNotFoundError(id)
	}
	return nil
}

// FindInStock returns products with stock left, newest first
func (r *GormProductRepository) FindInStock(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	err := r.db.WithContext(ctx).
		Where("stock_quantity > ?", 0).
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	return nil
}

// Count counts all products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var (
	_ catalog.ProductRepository        = (*GormProductRepository)(nil)
	_ catalog.LockingProductRepository = (*GormProductRepository)(nil)
)
