package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// OrderMetrics records order lifecycle measurements. It satisfies the event
// package's OrderMetricsRecorder.
type OrderMetrics struct {
	placed        *Counter
	cancelled     *Counter
	statusChanges *Counter
	amount        *Histogram
	items         *Histogram
}

// NewOrderMetrics creates the order instruments on meter
func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	placed, err := NewCounter(meter, "pantryfresh.orders.placed", "Orders placed at checkout", "{order}")
	if err != nil {
		return nil, err
	}
	cancelled, err := NewCounter(meter, "pantryfresh.orders.cancelled", "Orders cancelled", "{order}")
	if err != nil {
		return nil, err
	}
	statusChanges, err := NewCounter(meter, "pantryfresh.orders.status_changes", "Order status transitions", "{transition}")
	if err != nil {
		return nil, err
	}
	amount, err := NewHistogram(meter, "pantryfresh.orders.amount", "Order total amount", "{currency}", OrderAmountBuckets...)
	if err != nil {
		return nil, err
	}
	items, err := NewHistogram(meter, "pantryfresh.orders.items", "Lines per order", "{item}", OrderItemsBuckets...)
	if err != nil {
		return nil, err
	}
	return &OrderMetrics{
		placed:        placed,
		cancelled:     cancelled,
		statusChanges: statusChanges,
		amount:        amount,
		items:         items,
	}, nil
}

// RecordOrderPlaced counts a checkout and records its size and amount
func (m *OrderMetrics) RecordOrderPlaced(ctx context.Context, paymentMethod string, items int, totalAmount float64) {
	attr := AttrPaymentMethod.String(paymentMethod)
	m.placed.Inc(ctx, attr)
	m.amount.Record(ctx, totalAmount, attr)
	m.items.Record(ctx, float64(items), attr)
}

// RecordStatusChange counts a lifecycle transition
func (m *OrderMetrics) RecordStatusChange(ctx context.Context, from, to string) {
	m.statusChanges.Inc(ctx, AttrPrevStatus.String(from), AttrOrderStatus.String(to))
}

// RecordOrderCancelled counts a cancellation by who requested it
func (m *OrderMetrics) RecordOrderCancelled(ctx context.Context, actorRole string, _ float64) {
	m.cancelled.Inc(ctx, AttrActorRole.String(actorRole))
}
