package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/inventory"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/domain/shared/valueobject"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentMethodCOD        PaymentMethod = "COD"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodCard       PaymentMethod = "CARD"
	PaymentMethodNetBanking PaymentMethod = "NETBANKING"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodUPI, PaymentMethodCard, PaymentMethodNetBanking:
		return true
	}
	return false
}

// ActorRole identifies who triggered a lifecycle change
type ActorRole string

const (
	ActorRoleCustomer ActorRole = "customer"
	ActorRoleAdmin    ActorRole = "admin"
	ActorRoleSystem   ActorRole = "system"
)

// Actor is the user behind a lifecycle change
type Actor struct {
	ID   uuid.UUID
	Role ActorRole
}

// IsAdmin reports whether the actor has admin rights
func (a Actor) IsAdmin() bool {
	return a.Role == ActorRoleAdmin
}

// OrderItem is an immutable line captured from the cart
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Unit        string
	Quantity    int
	Price       decimal.Decimal
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
}

// NewOrderItem creates an order line priced at price
func NewOrderItem(productID uuid.UUID, productName, unit string, quantity int, price decimal.Decimal) (OrderItem, error) {
	if productID == uuid.Nil {
		return OrderItem{}, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if strings.TrimSpace(productName) == "" {
		return OrderItem{}, shared.NewValidationError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return OrderItem{}, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return OrderItem{}, shared.NewValidationError("INVALID_PRICE", "Price cannot be negative")
	}
	return OrderItem{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: productName,
		Unit:        unit,
		Quantity:    quantity,
		Price:       price,
		Subtotal:    ItemSubtotal(quantity, price),
	}, nil
}

// TimelineEntry records one status change. PreviousStatus is empty for creation.
type TimelineEntry struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	PreviousStatus Status
	NewStatus      Status
	Note           string
	ActorID        uuid.UUID
	ActorRole      ActorRole
	Timestamp      time.Time
}

// Order is the aggregate root of a placed order
type Order struct {
	shared.Aggregate
	OrderNumber        string
	UserID             uuid.UUID
	Status             Status
	Items              []OrderItem
	Totals             Totals
	Address            valueobject.Address
	DeliverySlot       string
	PaymentMethod      PaymentMethod
	OrderNotes         string
	AdminNotes         string
	CancellationReason string
	CancelledAt        *time.Time
	DeliveredAt        *time.Time
	Timeline           []TimelineEntry
}

// NewOrderParams carries everything needed to place an order
type NewOrderParams struct {
	OrderNumber   string
	UserID        uuid.UUID
	Items         []OrderItem
	Totals        Totals
	Address       valueobject.Address
	DeliverySlot  string
	PaymentMethod PaymentMethod
	OrderNotes    string
}

// NewOrder creates a PENDING order with its creation timeline entry
func NewOrder(p NewOrderParams, now time.Time) (*Order, error) {
	if _, _, err := ParseOrderNumber(p.OrderNumber); err != nil {
		return nil, err
	}
	if p.UserID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_USER", "User ID cannot be empty")
	}
	if len(p.Items) == 0 {
		return nil, shared.NewDomainError(shared.KindEmptyCart, "EMPTY_CART", "Cannot place an order without items")
	}
	if p.Address.IsEmpty() {
		return nil, shared.NewValidationError("INVALID_ADDRESS", "Delivery address is required")
	}
	if !p.PaymentMethod.IsValid() {
		return nil, shared.NewValidationError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unsupported payment method: %s", p.PaymentMethod))
	}
	if len(p.OrderNotes) > 500 {
		return nil, shared.NewValidationError("INVALID_NOTES", "Order notes cannot exceed 500 characters")
	}
	if !p.Totals.IsConsistent(p.Items) {
		return nil, shared.NewValidationError("INCONSISTENT_TOTALS", "Order totals do not match the order items")
	}

	o := &Order{
		Aggregate:     shared.NewAggregate(now),
		OrderNumber:   p.OrderNumber,
		UserID:        p.UserID,
		Status:        StatusPending,
		Totals:        p.Totals,
		Address:       p.Address,
		DeliverySlot:  strings.TrimSpace(p.DeliverySlot),
		PaymentMethod: p.PaymentMethod,
		OrderNotes:    strings.TrimSpace(p.OrderNotes),
	}
	o.Items = lo.Map(p.Items, func(item OrderItem, _ int) OrderItem {
		item.OrderID = o.ID
		item.CreatedAt = now
		return item
	})
	o.appendTimeline("", StatusPending, "Order placed", Actor{ID: p.UserID, Role: ActorRoleCustomer}, now)

	o.Record(NewOrderCreatedEvent(o))

	return o, nil
}

// TransitionTo moves the order to target and records the change.
// Entering CANCELLED stamps the cancellation; entering DELIVERED stamps delivery.
func (o *Order) TransitionTo(target Status, actor Actor, note string, now time.Time) (Status, error) {
	if !target.IsValid() {
		return "", shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return "", shared.NewInvalidTransitionError("INVALID_TRANSITION", o.Status.String(), target.String())
	}

	previous := o.Status
	note = strings.TrimSpace(note)

	o.Status = target
	switch target {
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
		o.CancellationReason = note
		if o.CancellationReason == "" {
			o.CancellationReason = defaultCancellationReason(actor)
		}
	}
	o.Touch(now)
	o.appendTimeline(previous, target, note, actor, now)

	o.Record(NewOrderStatusChangedEvent(o, previous, actor))
	if target == StatusCancelled {
		o.Record(NewOrderCancelledEvent(o, actor))
	}

	return previous, nil
}

// Cancel cancels the order on behalf of its owner
func (o *Order) Cancel(reason string, actor Actor, now time.Time) error {
	if !o.Status.CanCancel() {
		err := shared.NewInvalidTransitionError("ORDER_NOT_CANCELLABLE", o.Status.String(), StatusCancelled.String())
		err.Message = fmt.Sprintf("Order cannot be cancelled once it is %s", strings.ToLower(o.Status.Label()))
		return err
	}
	if len(reason) > 500 {
		return shared.NewValidationError("INVALID_REASON", "Cancellation reason cannot exceed 500 characters")
	}
	_, err := o.TransitionTo(StatusCancelled, actor, reason, now)
	return err
}

// SetAdminNotes replaces the internal notes
func (o *Order) SetAdminNotes(notes string, now time.Time) error {
	if len(notes) > 1000 {
		return shared.NewValidationError("INVALID_NOTES", "Admin notes cannot exceed 1000 characters")
	}
	o.AdminNotes = strings.TrimSpace(notes)
	o.Touch(now)
	return nil
}

// IsOwnedBy reports whether userID placed the order
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// ItemCount returns the number of order lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// StockAdjustments returns the per-product quantities held by the order
func (o *Order) StockAdjustments() []inventory.StockAdjustment {
	return lo.Map(o.Items, func(item OrderItem, _ int) inventory.StockAdjustment {
		return inventory.StockAdjustment{ProductID: item.ProductID, Quantity: item.Quantity}
	})
}

// LatestTimelineEntry returns the most recent status change
func (o *Order) LatestTimelineEntry() (TimelineEntry, bool) {
	if len(o.Timeline) == 0 {
		return TimelineEntry{}, false
	}
	return o.Timeline[len(o.Timeline)-1], true
}

func (o *Order) appendTimeline(previous, next Status, note string, actor Actor, now time.Time) {
	o.Timeline = append(o.Timeline, TimelineEntry{
		ID:             uuid.New(),
		OrderID:        o.ID,
		PreviousStatus: previous,
		NewStatus:      next,
		Note:           note,
		ActorID:        actor.ID,
		ActorRole:      actor.Role,
		Timestamp:      now,
	})
}

func defaultCancellationReason(actor Actor) string {
	switch actor.Role {
	case ActorRoleAdmin:
		return "Cancelled by admin"
	case ActorRoleSystem:
		return "Cancelled by system"
	default:
		return "Cancelled by customer"
	}
}
