package models

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Title         string            `gorm:"type:varchar(255);not null"`
	Description   string            `gorm:"type:text;not null;default:''"`
	Price         valueobject.Money `gorm:"type:decimal(12,2);not null"`
	StockQuantity int               `gorm:"not null;default:0;check:stock_quantity >= 0"`
	AverageRating decimal.Decimal   `gorm:"type:decimal(3,1);not null;default:0"`
	ReviewCount   int               `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Price:         m.Price,
		StockQuantity: m.StockQuantity,
		AverageRating: m.AverageRating,
		ReviewCount:   m.ReviewCount,
		CreatedAt:     m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.CreatedAt = p.CreatedAt
	m.Title = p.Title
	m.Description = p.Description
	m.Price = p.Price
	m.StockQuantity = p.StockQuantity
	m.AverageRating = p.AverageRating
	m.ReviewCount = p.ReviewCount
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
