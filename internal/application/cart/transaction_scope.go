package cart

import (
	"context"

	"github.com/pantryfresh/backend/internal/domain/cart"
	"github.com/pantryfresh/backend/internal/domain/catalog"
)

// TransactionScope runs cart changes atomically.
// A cart save rewrites the cart row and all of its lines, so it always runs
// inside one transaction.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a cart change touches.
type TransactionalRepositories interface {
	// Carts returns the cart repository scoped to the current transaction
	Carts() cart.Repository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
}

// NoOpTransactionScope runs the function against plain repositories
type NoOpTransactionScope struct {
	carts    cart.Repository
	products catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(carts cart.Repository, products catalog.ProductRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{carts: carts, products: products}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Carts returns the cart repository.
func (s *NoOpTransactionScope) Carts() cart.Repository { return s.carts }

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.products }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
