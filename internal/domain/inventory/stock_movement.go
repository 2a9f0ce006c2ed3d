package inventory

import (
	"time"

	"github.com/google/uuid"
)

// MovementReason says why stock changed
type MovementReason string

const (
	MovementReasonOrderPlaced    MovementReason = "ORDER_PLACED"
	MovementReasonOrderCancelled MovementReason = "ORDER_CANCELLED"
	MovementReasonRestock        MovementReason = "RESTOCK"
)

// IsValid checks if the reason is known
func (r MovementReason) IsValid() bool {
	switch r {
	case MovementReasonOrderPlaced, MovementReasonOrderCancelled, MovementReasonRestock:
		return true
	}
	return false
}

// MovementReference ties a ledger call to the business operation behind it
type MovementReference struct {
	Reason    MovementReason
	Reference string // order number or restock note
}

// StockMovement is one append-only journal row. Delta is negative for reductions.
type StockMovement struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	Delta      int
	Reason     MovementReason
	Reference  string
	StockAfter int
	CreatedAt  time.Time
}

// NewStockMovement creates a journal row for a single product adjustment
func NewStockMovement(productID uuid.UUID, delta int, ref MovementReference, stockAfter int, now time.Time) StockMovement {
	return StockMovement{
		ID:         uuid.New(),
		ProductID:  productID,
		Delta:      delta,
		Reason:     ref.Reason,
		Reference:  ref.Reference,
		StockAfter: stockAfter,
		CreatedAt:  now,
	}
}
