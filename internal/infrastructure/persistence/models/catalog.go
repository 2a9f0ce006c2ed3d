package models

import (
	"github.com/pantryfresh/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is a row of the products table. Stock is only ever changed
// through the stock ledger's conditional updates.
type ProductModel struct {
	AggregateModel
	Name        string           `gorm:"type:varchar(200);not null"`
	Description string           `gorm:"type:text"`
	Unit        string           `gorm:"type:varchar(20);not null"`
	Price       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	SalePrice   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Stock       int              `gorm:"not null;default:0"`
	IsActive    bool             `gorm:"not null;default:true;index"`
}

func (ProductModel) TableName() string {
	return "products"
}

// ToDomain rebuilds the product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		Aggregate:   m.ToDomainAggregate(),
		Name:        m.Name,
		Description: m.Description,
		Unit:        m.Unit,
		Price:       m.Price,
		SalePrice:   m.SalePrice,
		Stock:       m.Stock,
		IsActive:    m.IsActive,
	}
}

func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.AggregateModel = aggregateModel(p.Aggregate)
	m.Name = p.Name
	m.Description = p.Description
	m.Unit = p.Unit
	m.Price = p.Price
	m.SalePrice = p.SalePrice
	m.Stock = p.Stock
	m.IsActive = p.IsActive
}

// ProductModelFromDomain maps p to a new row
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
