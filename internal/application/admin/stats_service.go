package admin

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// Stats is the admin dashboard summary
type Stats struct {
	TotalProducts int64 `json:"totalProducts"`
	TotalOrders   int64 `json:"totalOrders"`
	PendingOrders int64 `json:"pendingOrders"`
}

// StatsService computes store-wide counters for admins
type StatsService struct {
	productRepo catalog.ProductRepository
	orderRepo   order.Repository
}

// NewStatsService creates a new StatsService
func NewStatsService(productRepo catalog.ProductRepository, orderRepo order.Repository) *StatsService {
	return &StatsService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// GetStats returns product and order counts
func (s *StatsService) GetStats(ctx context.Context) (*Stats, error) {
	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	orders, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	pending, err := s.orderRepo.CountByStatus(ctx, order.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending orders: %w", err)
	}

	return &Stats{
		TotalProducts: products,
		TotalOrders:   orders,
		PendingOrders: pending,
	}, nil
}

// Snapshot reports the same counters for the store gauges
func (s *StatsService) Snapshot(ctx context.Context) (telemetry.StoreSnapshot, error) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return telemetry.StoreSnapshot{}, err
	}
	return telemetry.StoreSnapshot{
		Products:      stats.TotalProducts,
		Orders:        stats.TotalOrders,
		PendingOrders: stats.PendingOrders,
	}, nil
}
