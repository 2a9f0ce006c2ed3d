package event

import (
	"context"
	"fmt"

	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var orderEventTypes = []string{
	order.EventTypeOrderCreated,
	order.EventTypeOrderStatusChanged,
	order.EventTypeOrderCancelled,
}

// AuditLogHandler writes one structured audit entry per order lifecycle event
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates the audit subscriber
func NewAuditLogHandler(l *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: l.Named("audit")}
}

// EventTypes implements shared.EventHandler
func (h *AuditLogHandler) EventTypes() []string { return orderEventTypes }

// Handle implements shared.EventHandler
func (h *AuditLogHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	log := logger.For(ctx, h.logger).With(
		zap.String("event_id", ev.EventID().String()),
		zap.Time("occurred_at", ev.OccurredAt()),
	)

	switch e := ev.(type) {
	case *order.OrderCreatedEvent:
		log.Info("order created",
			logger.OrderNumber(e.OrderNumber),
			zap.String("customer_id", e.UserID.String()),
			zap.Int("items", e.ItemsCount),
			zap.String("total_amount", e.TotalAmount.StringFixed(2)),
			zap.String("payment_method", string(e.PaymentMethod)),
		)
	case *order.OrderStatusChangedEvent:
		log.Info("order status changed",
			logger.OrderNumber(e.OrderNumber),
			zap.String("from", string(e.PreviousStatus)),
			zap.String("to", string(e.NewStatus)),
			zap.String("actor_id", e.ActorID.String()),
			zap.String("actor_role", string(e.ActorRole)),
		)
	case *order.OrderCancelledEvent:
		log.Info("order cancelled",
			logger.OrderNumber(e.OrderNumber),
			zap.String("customer_id", e.UserID.String()),
			zap.String("reason", e.Reason),
			zap.String("actor_role", string(e.ActorRole)),
			zap.Int("lines_restocked", len(e.Items)),
		)
	default:
		return fmt.Errorf("audit: unexpected event %T", ev)
	}
	return nil
}

// OrderMetricsRecorder receives order lifecycle measurements
type OrderMetricsRecorder interface {
	RecordOrderPlaced(ctx context.Context, paymentMethod string, items int, totalAmount float64)
	RecordStatusChange(ctx context.Context, from, to string)
	RecordOrderCancelled(ctx context.Context, actorRole string, totalAmount float64)
}

// MetricsHandler forwards order events to a metrics recorder
type MetricsHandler struct {
	recorder OrderMetricsRecorder
}

// NewMetricsHandler creates the metrics subscriber
func NewMetricsHandler(recorder OrderMetricsRecorder) *MetricsHandler {
	return &MetricsHandler{recorder: recorder}
}

// EventTypes implements shared.EventHandler
func (h *MetricsHandler) EventTypes() []string { return orderEventTypes }

// Handle implements shared.EventHandler
func (h *MetricsHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	switch e := ev.(type) {
	case *order.OrderCreatedEvent:
		h.recorder.RecordOrderPlaced(ctx, string(e.PaymentMethod), e.ItemsCount, e.TotalAmount.InexactFloat64())
	case *order.OrderStatusChangedEvent:
		h.recorder.RecordStatusChange(ctx, string(e.PreviousStatus), string(e.NewStatus))
	case *order.OrderCancelledEvent:
		h.recorder.RecordOrderCancelled(ctx, string(e.ActorRole), e.TotalAmount.InexactFloat64())
	default:
		return fmt.Errorf("metrics: unexpected event %T", ev)
	}
	return nil
}
