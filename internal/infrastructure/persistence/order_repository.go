package persistence

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository and order.WriteRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order row and then its items in one batch
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	db := r.db.WithContext(ctx)

	model := models.OrderModelFromDomain(o)
	if err := db.Omit("Items").Create(model).Error; err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	items := make([]models.OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = models.OrderItemModelFromDomain(model.ID, item)
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	for i := range o.Items {
		o.Items[i].ID = items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

// FindHistoryByUser returns a user's orders, newest first
func (r *GormOrderRepository) FindHistoryByUser(ctx context.Context, userID int64) ([]order.Summary, error) {
	var rows []models.OrderModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]order.Summary, len(rows))
	for i := range rows {
		summaries[i] = rows[i].ToSummary()
	}
	return summaries, nil
}

// Count counts all orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts orders with the given status
func (r *GormOrderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

var (
	_ order.Repository      = (*GormOrderRepository)(nil)
	_ order.WriteRepository = (*GormOrderRepository)(nil)
)
