package catalog

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductService serves the public catalog
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ListInStock returns products that can currently be bought, newest first
func (s *ProductService) ListInStock(ctx context.Context, filter ProductListFilter) ([]ProductListItem, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}

	products, err := s.productRepo.FindInStock(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToProductList(products), nil
}

// GetByID returns a single product
func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductListItem, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item := ToProductListItem(p)
	return &item, nil
}
