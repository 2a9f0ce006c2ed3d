package order

import (
	"context"

	"github.com/pantryfresh/backend/internal/domain/cart"
	"github.com/pantryfresh/backend/internal/domain/catalog"
	"github.com/pantryfresh/backend/internal/domain/inventory"
	"github.com/pantryfresh/backend/internal/domain/order"
)

// TransactionScope runs order operations atomically.
// Every repository handed to fn shares one database transaction, which is
// committed when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories an order operation touches.
type TransactionalRepositories interface {
	// Orders returns the order repository scoped to the current transaction
	Orders() order.Repository
	// Carts returns the cart repository scoped to the current transaction
	Carts() cart.Repository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// Ledger returns the stock ledger scoped to the current transaction
	Ledger() inventory.StockLedger
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	orders   order.Repository
	carts    cart.Repository
	products catalog.ProductRepository
	ledger   inventory.StockLedger
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orders order.Repository,
	carts cart.Repository,
	products catalog.ProductRepository,
	ledger inventory.StockLedger,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orders:   orders,
		carts:    carts,
		products: products,
		ledger:   ledger,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository.
func (s *NoOpTransactionScope) Orders() order.Repository { return s.orders }

// Carts returns the cart repository.
func (s *NoOpTransactionScope) Carts() cart.Repository { return s.carts }

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.products }

// Ledger returns the stock ledger.
func (s *NoOpTransactionScope) Ledger() inventory.StockLedger { return s.ledger }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
