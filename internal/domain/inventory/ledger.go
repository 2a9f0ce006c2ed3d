package inventory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/samber/lo"
)

// StockAdjustment is a quantity to take from or give back to one product
type StockAdjustment struct {
	ProductID uuid.UUID
	Quantity  int
}

// RestoredStock reports the effect of a restore on one product
type RestoredStock struct {
	ProductID        uuid.UUID `json:"productId"`
	ProductName      string    `json:"productName"`
	QuantityRestored int       `json:"quantityRestored"`
	StockAfter       int       `json:"stockAfter"`
}

// StockLedger mutates per-product stock counts.
// Implementations run inside the caller's transaction, so a failed Reduce
// rolls back every adjustment made before it.
type StockLedger interface {
	// Reduce takes stock for every adjustment. It never clamps: if a product
	// cannot cover its quantity the call fails with an InsufficientStock error.
	Reduce(ctx context.Context, adjustments []StockAdjustment, ref MovementReference) error

	// Restore gives stock back and reports the resulting counts
	Restore(ctx context.Context, adjustments []StockAdjustment, ref MovementReference) ([]RestoredStock, error)
}

// MergeAdjustments combines adjustments for the same product and returns
// them ordered by product ID. Concurrent writers touching the same products
// therefore lock rows in the same order.
func MergeAdjustments(adjustments []StockAdjustment) ([]StockAdjustment, error) {
	totals := make(map[uuid.UUID]int, len(adjustments))
	for _, adj := range adjustments {
		if adj.ProductID == uuid.Nil {
			return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if adj.Quantity <= 0 {
			return nil, shared.NewValidationError("INVALID_QUANTITY", "Stock adjustment quantity must be positive")
		}
		totals[adj.ProductID] += adj.Quantity
	}

	merged := lo.MapToSlice(totals, func(id uuid.UUID, qty int) StockAdjustment {
		return StockAdjustment{ProductID: id, Quantity: qty}
	})
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ProductID.String() < merged[j].ProductID.String()
	})
	return merged, nil
}
