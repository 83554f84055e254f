package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	ratingapp "github.com/storefront/backend/internal/application/rating"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// RatingService is the rating use case surface the handler needs
type RatingService interface {
	RecordRating(ctx context.Context, input ratingapp.RecordRatingInput) (*ratingapp.RatingResponse, error)
	ListRatings(ctx context.Context, productID int64) ([]ratingapp.RatingListItem, error)
}

// RatingHandler serves product ratings
type RatingHandler struct {
	BaseHandler
	ratingService RatingService
}

// NewRatingHandler creates a new RatingHandler
func NewRatingHandler(ratingService RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RecordRatingRequest is the body of POST /ratings. The score range is
// enforced by the rating domain (INVALID_SCORE).
type RecordRatingRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	Score     int    `json:"score"`
	Comment   string `json:"comment"`
}

// Record handles POST /ratings
func (h *RatingHandler) Record(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RecordRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.ratingService.RecordRating(c.Request.Context(), ratingapp.RecordRatingInput{
		ProductID: req.ProductID,
		UserID:    userID,
		Score:     req.Score,
		Comment:   req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// List handles GET /ratings/:productId
func (h *RatingHandler) List(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "productId must be a positive integer")
		return
	}

	ratings, err := h.ratingService.ListRatings(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ratings)
}
