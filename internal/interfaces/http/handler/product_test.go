package handler

import (
	"context"
	"net/http"
	"testing"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListInStock(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductListItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.ProductListItem), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id int64) (*catalogapp.ProductListItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductListItem), args.Error(1)
}

func TestProductHandler_List(t *testing.T) {
	svc := new(MockProductService)
	svc.On("ListInStock", mock.Anything, catalogapp.ProductListFilter{Page: 2, PageSize: 10}).Return([]catalogapp.ProductListItem{
		{ID: 4, Title: "Desk", Price: valueobject.MustMoney("120.00"), StockQuantity: 3},
	}, nil)

	router := newTestRouter()
	router.GET("/products", NewProductHandler(svc).List)

	w := performJSON(router, http.MethodGet, "/products?page=2&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []map[string]any
	resp := decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "120.00", items[0]["price"])
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 1, resp.Meta.Count)
}

func TestProductHandler_List_RejectsOversizedPage(t *testing.T) {
	router := newTestRouter()
	router.GET("/products", NewProductHandler(new(MockProductService)).List)

	w := performJSON(router, http.MethodGet, "/products?page_size=1000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION", decode(t, w, nil).Error.Code)
}

func TestProductHandler_Get(t *testing.T) {
	svc := new(MockProductService)
	svc.On("GetByID", mock.Anything, int64(4)).Return(&catalogapp.ProductListItem{ID: 4, Title: "Desk"}, nil)
	svc.On("GetByID", mock.Anything, int64(5)).Return(nil, catalog.NewProductNotFoundError(5))

	router := newTestRouter()
	router.GET("/products/:id", NewProductHandler(svc).Get)

	assert.Equal(t, http.StatusOK, performJSON(router, http.MethodGet, "/products/4", nil).Code)
	assert.Equal(t, http.StatusNotFound, performJSON(router, http.MethodGet, "/products/5", nil).Code)
	assert.Equal(t, http.StatusBadRequest, performJSON(router, http.MethodGet, "/products/-1", nil).Code)
}
