package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/inventory"
)

// StockMovementModel is an append-only row of the stock_movements journal
type StockMovementModel struct {
	ID         uuid.UUID                `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID                `gorm:"type:uuid;not null;index"`
	Delta      int                      `gorm:"not null"`
	Reason     inventory.MovementReason `gorm:"type:varchar(30);not null"`
	Reference  string                   `gorm:"type:varchar(100)"`
	StockAfter int                      `gorm:"not null"`
	CreatedAt  time.Time                `gorm:"not null;index"`
}

func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain rebuilds the journal entry
func (m *StockMovementModel) ToDomain() inventory.StockMovement {
	return inventory.StockMovement{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Delta:      m.Delta,
		Reason:     m.Reason,
		Reference:  m.Reference,
		StockAfter: m.StockAfter,
		CreatedAt:  m.CreatedAt,
	}
}

// StockMovementModelFromDomain maps m to a new row
func StockMovementModelFromDomain(s inventory.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:         s.ID,
		ProductID:  s.ProductID,
		Delta:      s.Delta,
		Reason:     s.Reason,
		Reference:  s.Reference,
		StockAfter: s.StockAfter,
		CreatedAt:  s.CreatedAt,
	}
}
