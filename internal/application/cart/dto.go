package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/cart"
	"github.com/pantryfresh/backend/internal/domain/shared/valueobject"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a product to the caller's cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=99"`
}

// UpdateItemRequest sets the quantity of a cart line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=99"`
}

// CartItemResponse is one cart line
type CartItemResponse struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartResponse is the caller's cart. A user without a cart gets an empty one.
type CartResponse struct {
	Items         []CartItemResponse `json:"items"`
	ItemsCount    int                `json:"itemsCount"`
	TotalQuantity int                `json:"totalQuantity"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	TotalDisplay  string             `json:"totalDisplay"`
	Currency      string             `json:"currency"`
	ExpiresAt     *time.Time         `json:"expiresAt,omitempty"`
}

func toCartResponse(c *cart.Cart, money *valueobject.MoneyFormatter) CartResponse {
	if c == nil {
		return CartResponse{
			Items:        []CartItemResponse{},
			TotalAmount:  decimal.Zero,
			TotalDisplay: money.Format(decimal.Zero),
			Currency:     money.Currency().String(),
		}
	}
	expiresAt := c.ExpiresAt
	return CartResponse{
		Items: lo.Map(c.Items, func(item cart.CartItem, _ int) CartItemResponse {
			return CartItemResponse{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Unit:        item.Unit,
				Quantity:    item.Quantity,
				Price:       item.Price,
				Subtotal:    item.Subtotal,
			}
		}),
		ItemsCount:    c.ItemCount(),
		TotalQuantity: c.TotalQuantity(),
		TotalAmount:   c.TotalAmount,
		TotalDisplay:  money.Format(c.TotalAmount),
		Currency:      money.Currency().String(),
		ExpiresAt:     &expiresAt,
	}
}
