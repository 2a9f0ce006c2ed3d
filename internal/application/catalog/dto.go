package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/catalog"
	"github.com/pantryfresh/backend/internal/domain/inventory"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to add a product to the catalog
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	Unit        string           `json:"unit" binding:"required,min=1,max=20"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"salePrice"`
	Stock       int              `json:"stock" binding:"min=0"`
}

// RestockRequest adds units to a product's stock
type RestockRequest struct {
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Note     string `json:"note" binding:"max=200"`
}

// PageQuery is the paging part of a listing query
type PageQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

func (q PageQuery) toFilter(defaultOrderBy string) shared.Filter {
	filter := shared.Filter{Page: q.Page, PageSize: q.Limit, OrderBy: q.SortBy, OrderDir: q.SortOrder}
	if filter.OrderBy == "" {
		filter.OrderBy = defaultOrderBy
	}
	if q.SortOrder == "" && defaultOrderBy == "name" {
		filter.OrderDir = "asc"
	}
	return filter.Normalize(shared.MaxPageSize)
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	Unit           string           `json:"unit"`
	Price          decimal.Decimal  `json:"price"`
	SalePrice      *decimal.Decimal `json:"salePrice,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effectivePrice"`
	PriceDisplay   string           `json:"priceDisplay"`
	OnSale         bool             `json:"onSale"`
	Stock          int              `json:"stock"`
	InStock        bool             `json:"inStock"`
	IsActive       bool             `json:"isActive"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// RestockResponse reports the stock after a restock
type RestockResponse struct {
	ProductID     uuid.UUID `json:"productId"`
	ProductName   string    `json:"productName"`
	QuantityAdded int       `json:"quantityAdded"`
	StockAfter    int       `json:"stockAfter"`
}

// StockMovementResponse is one stock journal row
type StockMovementResponse struct {
	ID         uuid.UUID `json:"id"`
	Delta      int       `json:"delta"`
	Reason     string    `json:"reason"`
	Reference  string    `json:"reference,omitempty"`
	StockAfter int       `json:"stockAfter"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToProductResponse converts a domain Product to a response
func ToProductResponse(p *catalog.Product, money *valueobject.MoneyFormatter) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Unit:           p.Unit,
		Price:          p.Price,
		SalePrice:      p.SalePrice,
		EffectivePrice: p.EffectivePrice(),
		PriceDisplay:   money.Format(p.EffectivePrice()),
		OnSale:         p.IsOnSale(),
		Stock:          p.Stock,
		InStock:        p.IsAvailable(),
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toStockMovementResponse(m inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:         m.ID,
		Delta:      m.Delta,
		Reason:     string(m.Reason),
		Reference:  m.Reference,
		StockAfter: m.StockAfter,
		CreatedAt:  m.CreatedAt,
	}
}
