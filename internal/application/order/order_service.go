package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderService handles order placement and order history
type OrderService struct {
	orderRepo       order.Repository
	txScope         TransactionScope
	businessMetrics *telemetry.BusinessMetrics
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.Repository, txScope TransactionScope) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		txScope:   txScope,
	}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// PlaceOrder validates stock, decrements inventory and persists an order with
// its line items as one atomic unit.
//
// Each product row is locked in caller order before it is read, so two
// placements touching the same product serialize on that row while disjoint
// carts proceed in parallel. On any failure the whole scope is rolled back and
// no stock change or order row survives.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, items []order.CartItem) (*PlaceOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place",
		telemetry.WithAttribute("user_id", userID),
		telemetry.WithAttribute("items_count", len(items)),
	)
	defer span.End()

	if err := order.ValidateCart(items); err != nil {
		s.recordRejected(ctx, err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	var placed *order.Order
	var err error
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("order", telemetry.OperationPlaceOrder), func(ctx context.Context) {
		placed, err = s.placeInScope(ctx, userID, items)
	})
	if err != nil {
		s.recordRejected(ctx, err)
		telemetry.RecordError(span, err)
		if !isDomainError(err) {
			logger.FromContext(ctx).Error("Order placement aborted",
				zap.Int64("user_id", userID),
				zap.Int("items_count", len(items)),
				zap.Error(err),
			)
			return nil, fmt.Errorf("place order: %w", err)
		}
		return nil, err
	}

	telemetry.SetAttributes(span,
		"order_id", placed.ID,
		"total_minor", placed.TotalAmount.MinorUnits(),
	)
	telemetry.SetOK(span)
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderPlaced(ctx, placed.TotalAmount.MinorUnits(), len(placed.Items))
	}

	logger.FromContext(ctx).Info("Order placed",
		zap.Int64("order_id", placed.ID),
		zap.Int64("user_id", userID),
		zap.String("total", placed.TotalAmount.String()),
	)

	return &PlaceOrderResponse{
		OrderID: placed.ID,
		Total:   placed.TotalAmount,
	}, nil
}

// placeInScope runs the locked read, stock check, decrement and insert in one
// transaction. Stock is checked against the locked copy before the row is
// written.
func (s *OrderService) placeInScope(ctx context.Context, userID int64, items []order.CartItem) (*order.Order, error) {
	var placed *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		products := repos.ProductRepo()
		builder := order.NewBuilder(userID)

		for _, item := range items {
			product, err := products.FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if err := product.DecreaseStock(item.Quantity); err != nil {
				return err
			}
			if err := products.DecrementStock(ctx, product.ID, item.Quantity); err != nil {
				return err
			}
			if _, err := builder.AddLine(product, item.Quantity); err != nil {
				return err
			}
		}

		o, err := builder.Build()
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}
		placed = o
		return nil
	})
	return placed, err
}

// History returns the user's orders, newest first
func (s *OrderService) History(ctx context.Context, userID int64) ([]OrderHistoryItem, error) {
	summaries, err := s.orderRepo.FindHistoryByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToOrderHistory(summaries), nil
}

func (s *OrderService) recordRejected(ctx context.Context, err error) {
	if s.businessMetrics == nil {
		return
	}
	reason := "internal"
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		reason = domainErr.Code
	}
	s.businessMetrics.RecordOrderRejected(ctx, reason)
}

func isDomainError(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr)
}
