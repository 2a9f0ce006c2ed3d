package catalog

import (
	"strings"
	"time"

	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item.
// Stock is only changed by the stock ledger; the aggregate exposes it read-only.
type Product struct {
	shared.Aggregate
	Name        string
	Description string
	Unit        string // e.g. "kg", "pcs", "500 g"
	Price       decimal.Decimal
	SalePrice   *decimal.Decimal
	Stock       int
	IsActive    bool
}

// NewProduct creates a new active product
func NewProduct(name, unit string, price decimal.Decimal, stock int, now time.Time) (*Product, error) {
	name = strings.TrimSpace(name)
	unit = strings.TrimSpace(unit)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, shared.NewValidationError("INVALID_STOCK", "Stock cannot be negative")
	}

	product := &Product{
		Aggregate: shared.NewAggregate(now),
		Name:      name,
		Unit:      unit,
		Price:     price.Round(2),
		Stock:     stock,
		IsActive:  true,
	}

	product.Record(NewProductCreatedEvent(product))

	return product, nil
}

// SetDescription sets the product description
func (p *Product) SetDescription(description string, now time.Time) {
	p.Description = strings.TrimSpace(description)
	p.Touch(now)
}

// SetSalePrice sets or clears (nil) the promotional price
func (p *Product) SetSalePrice(salePrice *decimal.Decimal, now time.Time) error {
	if salePrice != nil {
		if err := validatePrice(*salePrice); err != nil {
			return err
		}
		rounded := salePrice.Round(2)
		salePrice = &rounded
	}
	p.SalePrice = salePrice
	p.Touch(now)
	return nil
}

// Activate makes the product sellable again
func (p *Product) Activate(now time.Time) {
	p.IsActive = true
	p.Touch(now)
}

// Deactivate hides the product from checkout without touching stock
func (p *Product) Deactivate(now time.Time) {
	p.IsActive = false
	p.Touch(now)
}

// IsAvailable reports whether the product can currently be sold
func (p *Product) IsAvailable() bool {
	return p.IsActive && p.Stock > 0
}

// CanFulfil reports whether the product can cover quantity units
func (p *Product) CanFulfil(quantity int) bool {
	return p.IsAvailable() && p.Stock >= quantity
}

// EffectivePrice returns the price a cart captures: the sale price when it
// is set, positive and below the list price, otherwise the list price
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.IsPositive() && p.SalePrice.LessThan(p.Price) {
		return *p.SalePrice
	}
	return p.Price
}

// IsOnSale reports whether the effective price is the sale price
func (p *Product) IsOnSale() bool {
	return !p.EffectivePrice().Equal(p.Price)
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewValidationError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewValidationError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}
