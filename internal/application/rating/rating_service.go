package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/rating"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// RatingService records ratings and keeps the product aggregate current
type RatingService struct {
	ratingRepo      rating.Repository
	txScope         TransactionScope
	businessMetrics *telemetry.BusinessMetrics
}

// NewRatingService creates a new RatingService
func NewRatingService(ratingRepo rating.Repository, txScope TransactionScope) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		txScope:    txScope,
	}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *RatingService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// RecordRating stores a user's rating and recomputes the product's average
// and review count in the same transaction.
//
// The product row is locked first, so concurrent ratings on one product are
// applied one after another and the aggregate always reflects every
// committed rating.
func (s *RatingService) RecordRating(ctx context.Context, input RecordRatingInput) (*RatingResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "rating", "record",
		telemetry.WithAttribute("product_id", input.ProductID),
		telemetry.WithAttribute("user_id", input.UserID),
	)
	defer span.End()

	r, err := rating.NewRating(input.ProductID, input.UserID, input.Score, input.Comment)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var product *catalog.Product
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("rating", telemetry.OperationRecordRating), func(ctx context.Context) {
		product, err = s.recordInScope(ctx, r)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) {
			logger.FromContext(ctx).Error("Rating not recorded",
				zap.Int64("product_id", input.ProductID),
				zap.Int64("user_id", input.UserID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("record rating: %w", err)
		}
		return nil, err
	}

	telemetry.SetAttributes(span,
		"average_rating", product.AverageRating.String(),
		"review_count", product.ReviewCount,
	)
	telemetry.SetOK(span)
	if s.businessMetrics != nil {
		s.businessMetrics.RecordRatingRecorded(ctx, r.Score)
	}

	resp := ToRatingResponse(r)
	return &resp, nil
}

// recordInScope inserts r and refreshes the product aggregate under the
// product row lock. It returns the locked product with the new aggregate
// applied.
func (s *RatingService) recordInScope(ctx context.Context, r *rating.Rating) (*catalog.Product, error) {
	var product *catalog.Product
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		products := repos.ProductRepo()
		ratings := repos.RatingRepo()

		locked, err := products.FindByIDForUpdate(ctx, r.ProductID)
		if err != nil {
			return err
		}

		exists, err := ratings.ExistsForUser(ctx, r.ProductID, r.UserID)
		if err != nil {
			return err
		}
		if exists {
			return rating.ErrDuplicateRating
		}

		if err := ratings.Create(ctx, r); err != nil {
			return err
		}

		stats, err := ratings.Stats(ctx, r.ProductID)
		if err != nil {
			return err
		}
		if err := products.UpdateRatingStats(ctx, locked.ID, stats); err != nil {
			return err
		}
		locked.ApplyRatingStats(stats)
		product = locked
		return nil
	})
	return product, err
}

// ListRatings returns a product's ratings, newest first
func (s *RatingService) ListRatings(ctx context.Context, productID int64) ([]RatingListItem, error) {
	ratings, err := s.ratingRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToRatingList(ratings), nil
}
