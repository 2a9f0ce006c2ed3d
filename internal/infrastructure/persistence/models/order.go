package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AddressColumns stores the delivery address inline on the order row.
type AddressColumns struct {
	FullName string `gorm:"type:varchar(100);not null"`
	Phone    string `gorm:"type:varchar(20);not null"`
	Line1    string `gorm:"type:varchar(200);not null"`
	Line2    string `gorm:"type:varchar(200)"`
	City     string `gorm:"type:varchar(100);not null"`
	State    string `gorm:"type:varchar(100);not null"`
	Pincode  string `gorm:"type:varchar(10);not null;index"`
}

// OrderModel is a row of the orders table. Totals are frozen at checkout.
type OrderModel struct {
	AggregateModel
	OrderNumber        string              `gorm:"type:varchar(30);not null;uniqueIndex"`
	UserID             uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status             order.Status        `gorm:"type:varchar(20);not null;index"`
	Subtotal           decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	DeliveryFee        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	TaxAmount          decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Discount           decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	TotalAmount        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Delivery           AddressColumns      `gorm:"embedded;embeddedPrefix:delivery_"`
	DeliverySlot       string              `gorm:"type:varchar(50)"`
	PaymentMethod      order.PaymentMethod `gorm:"type:varchar(20);not null"`
	OrderNotes         string              `gorm:"type:varchar(500)"`
	AdminNotes         string              `gorm:"type:text"`
	CancellationReason string              `gorm:"type:varchar(500)"`
	CancelledAt        *time.Time
	DeliveredAt        *time.Time
	Items              []OrderItemModel     `gorm:"foreignKey:OrderID;references:ID"`
	Timeline           []OrderTimelineModel `gorm:"foreignKey:OrderID;references:ID"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain rebuilds the order; Items and Timeline must be preloaded by position
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		Aggregate:   m.ToDomainAggregate(),
		OrderNumber: m.OrderNumber,
		UserID:      m.UserID,
		Status:      m.Status,
		Totals: order.Totals{
			Subtotal:    m.Subtotal,
			DeliveryFee: m.DeliveryFee,
			TaxAmount:   m.TaxAmount,
			Discount:    m.Discount,
			TotalAmount: m.TotalAmount,
		},
		Address: valueobject.RestoreAddress(valueobject.AddressParams{
			FullName: m.Delivery.FullName,
			Phone:    m.Delivery.Phone,
			Line1:    m.Delivery.Line1,
			Line2:    m.Delivery.Line2,
			City:     m.Delivery.City,
			State:    m.Delivery.State,
			Pincode:  m.Delivery.Pincode,
		}),
		DeliverySlot:       m.DeliverySlot,
		PaymentMethod:      m.PaymentMethod,
		OrderNotes:         m.OrderNotes,
		AdminNotes:         m.AdminNotes,
		CancellationReason: m.CancellationReason,
		CancelledAt:        m.CancelledAt,
		DeliveredAt:        m.DeliveredAt,
		Items:              make([]order.OrderItem, len(m.Items)),
		Timeline:           make([]order.TimelineEntry, len(m.Timeline)),
	}
	for i, item := range m.Items {
		o.Items[i] = item.ToDomain()
	}
	for i, entry := range m.Timeline {
		o.Timeline[i] = entry.ToDomain()
	}
	return o
}

func (m *OrderModel) FromDomain(o *order.Order) {
	m.AggregateModel = aggregateModel(o.Aggregate)
	m.OrderNumber = o.OrderNumber
	m.UserID = o.UserID
	m.Status = o.Status
	m.Subtotal = o.Totals.Subtotal
	m.DeliveryFee = o.Totals.DeliveryFee
	m.TaxAmount = o.Totals.TaxAmount
	m.Discount = o.Totals.Discount
	m.TotalAmount = o.Totals.TotalAmount
	addr := o.Address.Params()
	m.Delivery = AddressColumns{
		FullName: addr.FullName,
		Phone:    addr.Phone,
		Line1:    addr.Line1,
		Line2:    addr.Line2,
		City:     addr.City,
		State:    addr.State,
		Pincode:  addr.Pincode,
	}
	m.DeliverySlot = o.DeliverySlot
	m.PaymentMethod = o.PaymentMethod
	m.OrderNotes = o.OrderNotes
	m.AdminNotes = o.AdminNotes
	m.CancellationReason = o.CancellationReason
	m.CancelledAt = o.CancelledAt
	m.DeliveredAt = o.DeliveredAt
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(item)
		m.Items[i].Position = i
	}
	m.Timeline = make([]OrderTimelineModel, len(o.Timeline))
	for i, entry := range o.Timeline {
		m.Timeline[i] = OrderTimelineModelFromDomain(entry)
		m.Timeline[i].Position = i
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Position    int             `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

func (m *OrderItemModel) ToDomain() order.OrderItem {
	return order.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Unit:        m.Unit,
		Quantity:    m.Quantity,
		Price:       m.Price,
		Subtotal:    m.Subtotal,
		CreatedAt:   m.CreatedAt,
	}
}

// OrderItemModelFromDomain creates a persistence model for an order line.
func OrderItemModelFromDomain(i order.OrderItem) OrderItemModel {
	return OrderItemModel{
		ID:          i.ID,
		OrderID:     i.OrderID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Unit:        i.Unit,
		Quantity:    i.Quantity,
		Price:       i.Price,
		Subtotal:    i.Subtotal,
		CreatedAt:   i.CreatedAt,
	}
}

// OrderTimelineModel is the persistence model for one status change.
type OrderTimelineModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PreviousStatus order.Status    `gorm:"type:varchar(20)"`
	NewStatus      order.Status    `gorm:"type:varchar(20);not null"`
	Note           string          `gorm:"type:text"`
	ActorID        uuid.UUID       `gorm:"type:uuid;not null"`
	ActorRole      order.ActorRole `gorm:"type:varchar(20);not null"`
	Position       int             `gorm:"not null"`
	Timestamp      time.Time       `gorm:"column:created_at;not null"`
}

func (OrderTimelineModel) TableName() string {
	return "order_timeline"
}

func (m *OrderTimelineModel) ToDomain() order.TimelineEntry {
	return order.TimelineEntry{
		ID:             m.ID,
		OrderID:        m.OrderID,
		PreviousStatus: m.PreviousStatus,
		NewStatus:      m.NewStatus,
		Note:           m.Note,
		ActorID:        m.ActorID,
		ActorRole:      m.ActorRole,
		Timestamp:      m.Timestamp,
	}
}

// OrderTimelineModelFromDomain creates a persistence model for a timeline entry.
func OrderTimelineModelFromDomain(e order.TimelineEntry) OrderTimelineModel {
	return OrderTimelineModel{
		ID:             e.ID,
		OrderID:        e.OrderID,
		PreviousStatus: e.PreviousStatus,
		NewStatus:      e.NewStatus,
		Note:           e.Note,
		ActorID:        e.ActorID,
		ActorRole:      e.ActorRole,
		Timestamp:      e.Timestamp,
	}
}
