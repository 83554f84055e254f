package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductListFilter is the query for the public product list
type ProductListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductListItem is a product as shown in the storefront list
type ProductListItem struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Price         valueobject.Money `json:"price"`
	StockQuantity int               `json:"stock_quantity"`
	AverageRating decimal.Decimal   `json:"average_rating"`
	ReviewCount   int               `json:"review_count"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ToProductListItem converts a domain product
func ToProductListItem(p *catalog.Product) ProductListItem {
	return ProductListItem{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		AverageRating: p.AverageRating,
		ReviewCount:   p.ReviewCount,
		CreatedAt:     p.CreatedAt,
	}
}

// ToProductList converts products, never returning nil
func ToProductList(products []catalog.Product) []ProductListItem {
	items := make([]ProductListItem, len(products))
	for i := range products {
		items[i] = ToProductListItem(&products[i])
	}
	return items
}
