package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/shared"
)

// StockMovementRepository reads the stock movement journal
type StockMovementRepository interface {
	// FindByProduct lists movements for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, int64, error)
}
