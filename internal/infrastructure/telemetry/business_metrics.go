package telemetry

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned by NewBusinessMetrics without a meter
var ErrMeterNil = errors.New("business metrics: meter cannot be nil")

// StoreSnapshot is a point-in-time view of catalog and order volume
type StoreSnapshot struct {
	Products      int64
	Orders        int64
	PendingOrders int64
}

// SnapshotProvider supplies StoreSnapshot values for periodic gauge collection
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (StoreSnapshot, error)
}

// BusinessMetrics counts storefront business events: placed and rejected
// orders, revenue and ratings. Gauges for catalog and order volume are
// refreshed from a SnapshotProvider.
type BusinessMetrics struct {
	logger *zap.Logger

	ordersPlaced   *Counter
	orderRevenue   *Counter
	orderItems     *Histogram
	ordersRejected *Counter
	ratings        *Counter

	products *Gauge
	orders   *Gauge

	stopCh      chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
	wg          sync.WaitGroup
}

// NewBusinessMetrics creates the business instruments on meter
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger, stopCh: make(chan struct{})}

	var err error
	if bm.ordersPlaced, err = NewCounter(meter, "storefront_orders_placed_total", "Orders committed", "{orders}"); err != nil {
		return nil, err
	}
	if bm.orderRevenue, err = NewCounter(meter, "storefront_order_revenue_minor_total", "Committed order totals in minor currency units", "{cents}"); err != nil {
		return nil, err
	}
	if bm.orderItems, err = NewHistogram(meter, HistogramOpts{
		Name:        "storefront_order_lines",
		Description: "Number of lines per committed order",
		Unit:        "{lines}",
		Boundaries:  []float64{1, 2, 3, 5, 10, 20, 50},
	}); err != nil {
		return nil, err
	}
	if bm.ordersRejected, err = NewCounter(meter, "storefront_orders_rejected_total", "Order placements rolled back, by reason", "{orders}"); err != nil {
		return nil, err
	}
	if bm.ratings, err = NewCounter(meter, "storefront_ratings_recorded_total", "Ratings recorded, by score", "{ratings}"); err != nil {
		return nil, err
	}
	if bm.products, err = NewGauge(meter, "storefront_products", "Products in the catalog", "{products}"); err != nil {
		return nil, err
	}
	if bm.orders, err = NewGauge(meter, "storefront_orders", "Orders by status bucket", "{orders}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordOrderPlaced counts a committed order with its total in minor units
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, totalMinor int64, lines int) {
	bm.ordersPlaced.Inc(ctx)
	bm.orderRevenue.Add(ctx, totalMinor)
	bm.orderItems.Record(ctx, float64(lines))
}

// RecordOrderRejected counts a rolled back placement. reason is an error code
// such as INSUFFICIENT_STOCK, or "internal".
func (bm *BusinessMetrics) RecordOrderRejected(ctx context.Context, reason string) {
	bm.ordersRejected.Inc(ctx, AttrRejectReason.String(reason))
}

// RecordRatingRecorded counts a stored rating
func (bm *BusinessMetrics) RecordRatingRecorded(ctx context.Context, score int) {
	bm.ratings.Inc(ctx, AttrRatingScore.String(strconv.Itoa(score)))
}

// RecordSnapshot sets the volume gauges
func (bm *BusinessMetrics) RecordSnapshot(ctx context.Context, s StoreSnapshot) {
	bm.products.Record(ctx, s.Products)
	bm.orders.Record(ctx, s.Orders, AttrOrderStatus.String("all"))
	bm.orders.Record(ctx, s.PendingOrders, AttrOrderStatus.String("pending"))
}

// StartPeriodicCollection refreshes the gauges from provider every interval
// until Stop is called or ctx is done. Only the first call starts a collector.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, provider SnapshotProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		bm.wg.Add(1)
		go func() {
			defer bm.wg.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			bm.collect(ctx, provider)
			for {
				select {
				case <-bm.stopCh:
					return
				case <-ctx.Done():
					return
				case <-ticker.C:
					bm.collect(ctx, provider)
				}
			}
		}()
	})
}

func (bm *BusinessMetrics) collect(ctx context.Context, provider SnapshotProvider) {
	snapshot, err := provider.Snapshot(ctx)
	if err != nil {
		bm.logger.Warn("Failed to collect store snapshot", zap.Error(err))
		return
	}
	bm.RecordSnapshot(ctx, snapshot)
}

// Stop ends periodic collection and waits for the collector to exit
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopCh)
	})
	bm.wg.Wait()
}
