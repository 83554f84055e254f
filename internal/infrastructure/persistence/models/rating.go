package models

import "github.com/storefront/backend/internal/domain/rating"

// RatingModel is the persistence model for a product rating.
type RatingModel struct {
	BaseModel
	ProductID int64   `gorm:"not null;uniqueIndex:idx_ratings_product_user,priority:1"`
	UserID    int64   `gorm:"not null;uniqueIndex:idx_ratings_product_user,priority:2"`
	Score     int     `gorm:"not null;check:score BETWEEN 1 AND 5"`
	Comment   *string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RatingModel) TableName() string {
	return "ratings"
}

// ToDomain converts the persistence model to a domain Rating.
func (m *RatingModel) ToDomain() rating.Rating {
	return rating.Rating{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		Score:     m.Score,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
	}
}

// RatingModelFromDomain creates a new persistence model from a domain Rating.
func RatingModelFromDomain(r *rating.Rating) *RatingModel {
	return &RatingModel{
		BaseModel: BaseModel{ID: r.ID, CreatedAt: r.CreatedAt},
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Score:     r.Score,
		Comment:   r.Comment,
	}
}
