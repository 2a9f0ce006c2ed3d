package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for cart persistence
type Repository interface {
	// FindByUserID returns the user's cart, or a NotFound error when none exists
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// FindByUserIDForUpdate is FindByUserID with the cart row locked until the transaction ends.
	// A checkout racing another checkout of the same cart reads the lines only after the
	// first one commits, and so sees an empty cart.
	FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save creates or updates the cart and replaces its lines
	Save(ctx context.Context, cart *Cart) error

	// Clear deletes every line of the cart and zeroes its total
	Clear(ctx context.Context, cartID uuid.UUID) error
}
