package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is the storefront currency
var DefaultCurrency = currency.INR

// ParseCurrency validates an ISO 4217 code
func ParseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	return unit, nil
}

// RoundMoney rounds an amount to two decimal places, half away from zero
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MoneyFormatter renders amounts for display
type MoneyFormatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewMoneyFormatter creates a formatter for the given currency and display language
func NewMoneyFormatter(unit currency.Unit, tag language.Tag) *MoneyFormatter {
	return &MoneyFormatter{
		unit:    unit,
		printer: message.NewPrinter(tag),
	}
}

// Currency returns the formatter's currency
func (f *MoneyFormatter) Currency() currency.Unit {
	return f.unit
}

// Format renders amount with the currency symbol, e.g. "₹ 240.00"
func (f *MoneyFormatter) Format(amount decimal.Decimal) string {
	value, _ := RoundMoney(amount).Float64()
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(value)))
}
