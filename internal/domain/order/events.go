package order

import (
	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderCancelled     = "OrderCancelled"
)

// OrderCreatedEvent is raised when a cart is checked out
type OrderCreatedEvent struct {
	shared.EventMeta
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	UserID        uuid.UUID       `json:"user_id"`
	ItemsCount    int             `json:"items_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		EventMeta:     shared.NewEventMeta(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.CreatedAt),
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		ItemsCount:    o.ItemCount(),
		TotalAmount:   o.Totals.TotalAmount,
		PaymentMethod: o.PaymentMethod,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderStatusChangedEvent is raised on every lifecycle transition
type OrderStatusChangedEvent struct {
	shared.EventMeta
	OrderID        uuid.UUID `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	PreviousStatus Status    `json:"previous_status"`
	NewStatus      Status    `json:"new_status"`
	ActorID        uuid.UUID `json:"actor_id"`
	ActorRole      ActorRole `json:"actor_role"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, previous Status, actor Actor) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		EventMeta:      shared.NewEventMeta(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.UpdatedAt),
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		PreviousStatus: previous,
		NewStatus:      o.Status,
		ActorID:        actor.ID,
		ActorRole:      actor.Role,
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}

// CancelledItemInfo describes stock released by a cancellation
type CancelledItemInfo struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// OrderCancelledEvent is raised when an order enters CANCELLED
type OrderCancelledEvent struct {
	shared.EventMeta
	OrderID     uuid.UUID           `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	UserID      uuid.UUID           `json:"user_id"`
	Reason      string              `json:"reason"`
	ActorRole   ActorRole           `json:"actor_role"`
	Items       []CancelledItemInfo `json:"items"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, actor Actor) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		EventMeta:   shared.NewEventMeta(EventTypeOrderCancelled, AggregateTypeOrder, o.ID, o.UpdatedAt),
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Reason:      o.CancellationReason,
		ActorRole:   actor.Role,
		Items: lo.Map(o.Items, func(item OrderItem, _ int) CancelledItemInfo {
			return CancelledItemInfo{ProductID: item.ProductID, Quantity: item.Quantity}
		}),
		TotalAmount: o.Totals.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
