package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// CartModel is a row of the carts table; one per user
type CartModel struct {
	AggregateModel
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ExpiresAt   time.Time       `gorm:"not null;index"`
	Items       []CartItemModel `gorm:"foreignKey:CartID;references:ID"`
}

func (CartModel) TableName() string {
	return "carts"
}

// ToDomain rebuilds the cart with its lines
func (m *CartModel) ToDomain() *cart.Cart {
	c := &cart.Cart{
		Aggregate:   m.ToDomainAggregate(),
		UserID:      m.UserID,
		TotalAmount: m.TotalAmount,
		ExpiresAt:   m.ExpiresAt,
		Items:       make([]cart.CartItem, len(m.Items)),
	}
	for i, item := range m.Items {
		c.Items[i] = item.ToDomain()
	}
	return c
}

func (m *CartModel) FromDomain(c *cart.Cart) {
	m.AggregateModel = aggregateModel(c.Aggregate)
	m.UserID = c.UserID
	m.TotalAmount = c.TotalAmount
	m.ExpiresAt = c.ExpiresAt
	m.Items = make([]CartItemModel, len(c.Items))
	for i, item := range c.Items {
		m.Items[i] = CartItemModelFromDomain(c.ID, item)
	}
}

// CartModelFromDomain maps c and its lines to new rows
func CartModelFromDomain(c *cart.Cart) *CartModel {
	m := &CartModel{}
	m.FromDomain(c)
	return m
}

// CartItemModel is the persistence model for a cart line.
type CartItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CartID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem.
func (m *CartItemModel) ToDomain() cart.CartItem {
	return cart.CartItem{
		ID:          m.ID,
		CartID:      m.CartID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Unit:        m.Unit,
		Quantity:    m.Quantity,
		Price:       m.Price,
		Subtotal:    m.Subtotal,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CartItemModelFromDomain creates a persistence model for a cart line.
func CartItemModelFromDomain(cartID uuid.UUID, i cart.CartItem) CartItemModel {
	return CartItemModel{
		ID:          i.ID,
		CartID:      cartID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Unit:        i.Unit,
		Quantity:    i.Quantity,
		Price:       i.Price,
		Subtotal:    i.Subtotal,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
