package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/rating"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError(t *testing.T) {
	stocked := &catalog.Product{ID: 3, Title: "Lamp", StockQuantity: 1}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty cart", order.ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
		{"invalid quantity", order.ErrInvalidQuantity, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"insufficient stock", catalog.NewInsufficientStockError(stocked), http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"order total out of range", order.ErrTotalOutOfRange.WithCause(valueobject.ErrMoneyOverflow), http.StatusBadRequest, "ORDER_TOTAL_OUT_OF_RANGE"},
		{"product not found", catalog.NewProductNotFoundError(9), http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"duplicate rating", rating.ErrDuplicateRating, http.StatusConflict, "DUPLICATE_RATING"},
		{"invalid score", rating.ErrInvalidScore, http.StatusBadRequest, "INVALID_SCORE"},
		{"legacy code is normalized", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped domain error", fmt.Errorf("tx: %w", order.ErrEmptyCart), http.StatusBadRequest, "EMPTY_CART"},
		{"infrastructure error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			router := newTestRouter()
			router.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := performJSON(router, http.MethodGet, "/", nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			resp := decode(t, w, nil)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_HidesInternalMessage(t *testing.T) {
	h := &BaseHandler{}
	router := newTestRouter()
	router.GET("/", func(c *gin.Context) { h.HandleError(c, errors.New("pq: password authentication failed")) })

	w := performJSON(router, http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestBaseHandler_HandleError_StockDetails(t *testing.T) {
	h := &BaseHandler{}
	router := newTestRouter()
	router.GET("/", func(c *gin.Context) {
		h.HandleError(c, catalog.NewInsufficientStockError(&catalog.Product{ID: 3, Title: "Lamp", StockQuantity: 1}))
	})

	resp := decode(t, performJSON(router, http.MethodGet, "/", nil), nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, float64(3), resp.Error.Context["productId"])
	assert.Equal(t, float64(1), resp.Error.Context["available"])
}
