package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	// MaxItemQuantity is the largest quantity a single cart line may hold
	MaxItemQuantity = 99

	// DefaultTTL is how long a cart lives after its last change
	DefaultTTL = 7 * 24 * time.Hour
)

// ProductSnapshot is the product data a cart line captures at add time
type ProductSnapshot struct {
	ID    uuid.UUID
	Name  string
	Unit  string
	Price decimal.Decimal
}

// CartItem is one product line in a cart
type CartItem struct {
	ID          uuid.UUID
	CartID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Unit        string
	Quantity    int
	Price       decimal.Decimal // effective price when the line was last added
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i *CartItem) recalculate() {
	i.Subtotal = i.Price.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

// Cart is the single active cart of a user
type Cart struct {
	shared.Aggregate
	UserID      uuid.UUID
	Items       []CartItem
	TotalAmount decimal.Decimal
	ExpiresAt   time.Time
	ttl         time.Duration
}

// NewCart creates an empty cart for userID
func NewCart(userID uuid.UUID, now time.Time) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_USER", "User ID cannot be empty")
	}
	c := &Cart{
		Aggregate:   shared.NewAggregate(now),
		UserID:      userID,
		Items:       make([]CartItem, 0),
		TotalAmount: decimal.Zero,
	}
	c.touch(now)
	return c, nil
}

// WithTTL overrides how far each change pushes the expiry out
func (c *Cart) WithTTL(ttl time.Duration) *Cart {
	c.ttl = ttl
	return c
}

// AddItem adds quantity of product to the cart. An existing line for the
// same product is merged: quantities add up and the price is refreshed.
func (c *Cart) AddItem(product ProductSnapshot, quantity int, now time.Time) (*CartItem, error) {
	if product.ID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if product.Price.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Price cannot be negative")
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	if idx := c.indexOf(product.ID); idx >= 0 {
		item := &c.Items[idx]
		merged := item.Quantity + quantity
		if merged > MaxItemQuantity {
			return nil, shared.NewValidationError("QUANTITY_LIMIT_EXCEEDED",
				fmt.Sprintf("Cannot hold more than %d units of %s", MaxItemQuantity, item.ProductName)).
				WithDetail("current_quantity", item.Quantity)
		}
		item.Quantity = merged
		item.Price = product.Price
		item.ProductName = product.Name
		item.Unit = product.Unit
		item.UpdatedAt = now
		item.recalculate()
		c.recalculate(now)
		return item, nil
	}

	item := CartItem{
		ID:          uuid.New(),
		CartID:      c.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Unit:        product.Unit,
		Quantity:    quantity,
		Price:       product.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	item.recalculate()
	c.Items = append(c.Items, item)
	c.recalculate(now)
	return &c.Items[len(c.Items)-1], nil
}

// UpdateItemQuantity sets the quantity of an existing line
func (c *Cart) UpdateItemQuantity(productID uuid.UUID, quantity int, now time.Time) (*CartItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	idx := c.indexOf(productID)
	if idx < 0 {
		return nil, shared.NewNotFoundError("Cart item")
	}
	item := &c.Items[idx]
	item.Quantity = quantity
	item.UpdatedAt = now
	item.recalculate()
	c.recalculate(now)
	return item, nil
}

// RemoveItem removes the line for productID
func (c *Cart) RemoveItem(productID uuid.UUID, now time.Time) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return shared.NewNotFoundError("Cart item")
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.recalculate(now)
	return nil
}

// Clear removes every line
func (c *Cart) Clear(now time.Time) {
	c.Items = make([]CartItem, 0)
	c.recalculate(now)
}

// Item returns the line for productID
func (c *Cart) Item(productID uuid.UUID) (*CartItem, bool) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return nil, false
	}
	return &c.Items[idx], true
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the number of distinct lines
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// TotalQuantity returns the number of units across all lines
func (c *Cart) TotalQuantity() int {
	return lo.SumBy(c.Items, func(i CartItem) int { return i.Quantity })
}

// ProductIDs returns the products referenced by the cart
func (c *Cart) ProductIDs() []uuid.UUID {
	return lo.Map(c.Items, func(i CartItem, _ int) uuid.UUID { return i.ProductID })
}

// IsExpired reports whether the cart outlived its TTL
func (c *Cart) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	_, idx, ok := lo.FindIndexOf(c.Items, func(i CartItem) bool { return i.ProductID == productID })
	if !ok {
		return -1
	}
	return idx
}

func (c *Cart) recalculate(now time.Time) {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal)
	}
	c.TotalAmount = total.Round(2)
	c.touch(now)
}

func (c *Cart) touch(now time.Time) {
	ttl := c.ttl
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(ttl)
}

func validateQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxItemQuantity {
		return shared.NewValidationError("INVALID_QUANTITY",
			fmt.Sprintf("Quantity must be between 1 and %d", MaxItemQuantity))
	}
	return nil
}
