package order

import (
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the monetary breakdown frozen on an order at creation
type Totals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	TaxAmount   decimal.Decimal
	Discount    decimal.Decimal
	TotalAmount decimal.Decimal
}

// LineAmount is the quantity and unit price of one line
type LineAmount struct {
	Quantity int
	Price    decimal.Decimal
}

// ItemSubtotal returns quantity × price rounded to 2 places
func ItemSubtotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// CalculateTotals computes the order breakdown. Every field is rounded to
// 2 places on its own; the total is built from the rounded parts so
// subtotal + deliveryFee + taxAmount - discount == totalAmount holds exactly.
func CalculateTotals(lines []LineAmount, deliveryFee, taxPercent, discount decimal.Decimal) (Totals, error) {
	if deliveryFee.IsNegative() {
		return Totals{}, shared.NewValidationError("INVALID_DELIVERY_FEE", "Delivery fee cannot be negative")
	}
	if taxPercent.IsNegative() {
		return Totals{}, shared.NewValidationError("INVALID_TAX_PERCENT", "Tax percent cannot be negative")
	}
	if discount.IsNegative() {
		return Totals{}, shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return Totals{}, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if line.Price.IsNegative() {
			return Totals{}, shared.NewValidationError("INVALID_PRICE", "Price cannot be negative")
		}
		subtotal = subtotal.Add(ItemSubtotal(line.Quantity, line.Price))
	}

	t := Totals{
		Subtotal:    subtotal.Round(2),
		DeliveryFee: deliveryFee.Round(2),
		TaxAmount:   subtotal.Mul(taxPercent).Div(hundred).Round(2),
		Discount:    discount.Round(2),
	}
	gross := t.Subtotal.Add(t.DeliveryFee).Add(t.TaxAmount)
	if t.Discount.GreaterThan(gross) {
		return Totals{}, shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot exceed the order amount")
	}
	t.TotalAmount = gross.Sub(t.Discount).Round(2)
	return t, nil
}

// IsConsistent reports whether the breakdown adds up and matches the item subtotals
func (t Totals) IsConsistent(items []OrderItem) bool {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Subtotal)
	}
	if !sum.Equal(t.Subtotal) {
		return false
	}
	return t.Subtotal.Add(t.DeliveryFee).Add(t.TaxAmount).Sub(t.Discount).Equal(t.TotalAmount)
}

// PricingPolicy decides delivery fee and tax for a checkout
type PricingPolicy struct {
	FreeDeliveryThreshold decimal.Decimal
	BaseDeliveryFee       decimal.Decimal
	TaxPercent            decimal.Decimal
	// PincodeFees overrides BaseDeliveryFee for specific pincodes
	PincodeFees map[string]decimal.Decimal
}

// DefaultPricingPolicy returns free delivery from 500, a flat fee of 40 and no tax
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		FreeDeliveryThreshold: decimal.NewFromInt(500),
		BaseDeliveryFee:       decimal.NewFromInt(40),
		TaxPercent:            decimal.Zero,
	}
}

// DeliveryFee returns the fee for an order of subtotal shipped to pincode
func (p PricingPolicy) DeliveryFee(subtotal decimal.Decimal, pincode string) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	if fee, ok := p.PincodeFees[pincode]; ok {
		return fee
	}
	return p.BaseDeliveryFee
}

// Quote prices lines for delivery to pincode
func (p PricingPolicy) Quote(lines []LineAmount, pincode string, discount decimal.Decimal) (Totals, error) {
	// Delivery fee depends on the subtotal, so price the lines first without it.
	base, err := CalculateTotals(lines, decimal.Zero, decimal.Zero, decimal.Zero)
	if err != nil {
		return Totals{}, err
	}
	return CalculateTotals(lines, p.DeliveryFee(base.Subtotal, pincode), p.TaxPercent, discount)
}
