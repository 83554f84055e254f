package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/rating"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRatingRepository implements the rating repositories using GORM
type GormRatingRepository struct {
	db *gorm.DB
}

// NewGormRatingRepository creates a new GormRatingRepository
func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

// FindByProduct returns ratings for a product newest first
func (r *GormRatingRepository) FindByProduct(ctx context.Context, productID int64) ([]rating.Rating, error) {
	var rows []models.RatingModel
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ratings := make([]rating.Rating, len(rows))
	for i := range rows {
		ratings[i] = rows[i].ToDomain()
	}
	return ratings, nil
}

// ExistsForUser reports whether the user already rated the product
func (r *GormRatingRepository) ExistsForUser(ctx context.Context, productID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RatingModel{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a rating. A unique index violation surfaces as ErrDuplicateRating.
func (r *GormRatingRepository) Create(ctx context.Context, rt *rating.Rating) error {
	model := models.RatingModelFromDomain(rt)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return rating.ErrDuplicateRating
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	rt.ID = model.ID
	rt.CreatedAt = model.CreatedAt
	return nil
}

type ratingStatsRow struct {
	Average decimal.Decimal
	Count   int
}

// Stats computes the mean score and rating count of a product
func (r *GormRatingRepository) Stats(ctx context.Context, productID int64) (catalog.RatingStats, error) {
	var row ratingStatsRow
	err := r.db.WithContext(ctx).
		Model(&models.RatingModel{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return catalog.RatingStats{}, err
	}
	return catalog.NewRatingStats(row.Average, row.Count), nil
}

var (
	_ rating.Repository      = (*GormRatingRepository)(nil)
	_ rating.WriteRepository = (*GormRatingRepository)(nil)
)
