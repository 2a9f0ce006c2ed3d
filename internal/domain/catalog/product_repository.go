package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds the products with the given IDs; missing IDs are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindByIDsForUpdate is FindByIDs with row locks held until the transaction ends
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll lists products, optionally only the active ones
	FindAll(ctx context.Context, filter shared.Filter, activeOnly bool) ([]Product, int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
