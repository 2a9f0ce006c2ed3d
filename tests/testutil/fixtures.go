package testutil

import (
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
	catalogapp "github.com/pantryfresh/backend/internal/application/catalog"
	orderapp "github.com/pantryfresh/backend/internal/application/order"
	"github.com/shopspring/decimal"
)

// RandomProduct returns a create request for an active product with stock units
// and a price between 10 and 500.
func RandomProduct(stock int) catalogapp.CreateProductRequest {
	return catalogapp.CreateProductRequest{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Unit:        gofakeit.RandomString([]string{"kg", "g", "l", "ml", "pcs", "dozen"}),
		Price:       decimal.NewFromFloat(gofakeit.Price(10, 500)).Round(2),
		Stock:       stock,
	}
}

// RandomAddress returns a delivery address that passes checkout validation
func RandomAddress() orderapp.AddressInput {
	return orderapp.AddressInput{
		FullName: gofakeit.Name(),
		Phone:    gofakeit.Numerify("9#########"),
		Line1:    gofakeit.Street(),
		City:     gofakeit.City(),
		State:    gofakeit.State(),
		Pincode:  strconv.Itoa(gofakeit.Number(110001, 855999)),
	}
}

// RandomCheckout returns a checkout request paying with method
func RandomCheckout(method string) orderapp.CreateOrderRequest {
	return orderapp.CreateOrderRequest{
		DeliveryAddress: RandomAddress(),
		DeliverySlot:    gofakeit.RandomString([]string{"08:00-10:00", "10:00-12:00", "18:00-20:00"}),
		PaymentMethod:   method,
		OrderNotes:      gofakeit.Sentence(6),
	}
}
