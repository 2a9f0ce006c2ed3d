package catalog

import (
	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated = "ProductCreated"
)

// ProductCreatedEvent is published when a new product is added to the catalog
type ProductCreatedEvent struct {
	shared.EventMeta
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		EventMeta: shared.NewEventMeta(EventTypeProductCreated, AggregateTypeProduct, product.ID, product.CreatedAt),
		ProductID: product.ID,
		Name:      product.Name,
		Unit:      product.Unit,
		Price:     product.Price,
		Stock:     product.Stock,
	}
}

// EventType returns the event type name
func (e *ProductCreatedEvent) EventType() string {
	return EventTypeProductCreated
}
