package catalog

import (
	"context"

	"github.com/pantryfresh/backend/internal/domain/catalog"
	"github.com/pantryfresh/backend/internal/domain/inventory"
)

// TransactionScope runs catalog changes atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a catalog change touches.
type TransactionalRepositories interface {
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// Ledger returns the stock ledger scoped to the current transaction
	Ledger() inventory.StockLedger
}

// NoOpTransactionScope runs the function against plain repositories
type NoOpTransactionScope struct {
	products catalog.ProductRepository
	ledger   inventory.StockLedger
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(products catalog.ProductRepository, ledger inventory.StockLedger) *NoOpTransactionScope {
	return &NoOpTransactionScope{products: products, ledger: ledger}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.products }

// Ledger returns the stock ledger.
func (s *NoOpTransactionScope) Ledger() inventory.StockLedger { return s.ledger }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
