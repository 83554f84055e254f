package rating

import (
	"context"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

const (
	MinScore         = 1
	MaxScore         = 5
	MaxCommentLength = 2000
)

// Rating errors
var (
	ErrDuplicateRating = shared.NewDomainError("DUPLICATE_RATING", "You have already rated this product")
	ErrInvalidScore    = shared.NewDomainError("INVALID_SCORE", "Score must be between 1 and 5")
	ErrCommentTooLong  = shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 2000 characters")
)

// Rating is a user's score for a product. A user rates a product at most once.
type Rating struct {
	ID        int64
	ProductID int64
	UserID    int64
	Score     int
	Comment   *string
	CreatedAt time.Time
}

// NewRating validates and creates a rating. A blank comment is stored as NULL.
func NewRating(productID, userID int64, score int, comment string) (*Rating, error) {
	if score < MinScore || score > MaxScore {
		return nil, ErrInvalidScore
	}
	if len(comment) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	r := &Rating{
		ProductID: productID,
		UserID:    userID,
		Score:     score,
		CreatedAt: time.Now(),
	}
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		r.Comment = &trimmed
	}
	return r, nil
}

// Repository is the read side of ratings
type Repository interface {
	// FindByProduct returns ratings for a product newest first
	FindByProduct(ctx context.Context, productID int64) ([]Rating, error)
}

// WriteRepository is available inside the rating transactional scope
type WriteRepository interface {
	ExistsForUser(ctx context.Context, productID, userID int64) (bool, error)
	Create(ctx context.Context, r *Rating) error
	Stats(ctx context.Context, productID int64) (catalog.RatingStats, error)
}
