package rating

import (
	"time"

	"github.com/storefront/backend/internal/domain/rating"
)

// RecordRatingInput is the input for RecordRating
type RecordRatingInput struct {
	ProductID int64
	UserID    int64
	Score     int
	Comment   string
}

// RatingResponse is a stored rating as returned to its author
type RatingResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	UserID    int64     `json:"userId"`
	Score     int       `json:"score"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingListItem is one entry of a product's public rating list
type RatingListItem struct {
	Score     int       `json:"score"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ToRatingResponse converts a domain rating
func ToRatingResponse(r *rating.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Score:     r.Score,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// ToRatingList converts ratings to list items, never returning nil
func ToRatingList(ratings []rating.Rating) []RatingListItem {
	items := make([]RatingListItem, len(ratings))
	for i, r := range ratings {
		items[i] = RatingListItem{
			Score:     r.Score,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
	}
	return items
}
