package models

import (
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	BaseModel
	UserID      int64             `gorm:"not null;index"`
	TotalAmount valueobject.Money `gorm:"type:decimal(12,2);not null"`
	Status      order.Status      `gorm:"type:varchar(20);not null;default:'pending'"`
	Items       []OrderItemModel  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		ID:          m.ID,
		UserID:      m.UserID,
		TotalAmount: m.TotalAmount,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		Items:       make([]order.Item, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	return o
}

// ToSummary converts the persistence model to a history summary.
func (m *OrderModel) ToSummary() order.Summary {
	return order.Summary{
		ID:          m.ID,
		TotalAmount: m.TotalAmount,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}
}

// OrderModelFromDomain creates the order row without its items.
// Items are inserted separately once the order id is known.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	return &OrderModel{
		BaseModel:   BaseModel{ID: o.ID, CreatedAt: o.CreatedAt},
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
	}
}

// OrderItemModel is the persistence model for one order line.
type OrderItemModel struct {
	ID        int64             `gorm:"primaryKey;autoIncrement"`
	OrderID   int64             `gorm:"not null;index"`
	ProductID int64             `gorm:"not null;index"`
	Quantity  int               `gorm:"not null;check:quantity > 0"`
	UnitPrice valueobject.Money `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain order line.
func (m *OrderItemModel) ToDomain() order.Item {
	return order.Item{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
	}
}

// OrderItemModelFromDomain creates a persistence model for an order line.
func OrderItemModelFromDomain(orderID int64, item order.Item) OrderItemModel {
	return OrderItemModel{
		OrderID:   orderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
	}
}
