package persistence

import (
	"context"
	"time"

	appcart "github.com/pantryfresh/backend/internal/application/cart"
	appcatalog "github.com/pantryfresh/backend/internal/application/catalog"
	apporder "github.com/pantryfresh/backend/internal/application/order"
	"github.com/pantryfresh/backend/internal/domain/cart"
	"github.com/pantryfresh/backend/internal/domain/catalog"
	"github.com/pantryfresh/backend/internal/domain/inventory"
	"github.com/pantryfresh/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormTransactionScope runs application work inside a GORM transaction.
// The transaction is rolled back when the function returns an error and
// committed otherwise.
type GormTransactionScope struct {
	db      *gorm.DB
	now     func() time.Time
	cartTTL time.Duration
}

// NewGormTransactionScope creates a new GormTransactionScope.
// now stamps stock movements and cart expiry; nil means time.Now.
func NewGormTransactionScope(db *gorm.DB, now func() time.Time) *GormTransactionScope {
	if now == nil {
		now = time.Now
	}
	return &GormTransactionScope{db: db, now: now}
}

// WithCartTTL sets how far clearing a cart pushes its expiry out
func (s *GormTransactionScope) WithCartTTL(ttl time.Duration) *GormTransactionScope {
	s.cartTTL = ttl
	return s
}

func (s *GormTransactionScope) execute(ctx context.Context, fn func(repos *gormTransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, now: s.now, cartTTL: s.cartTTL})
	})
}

// Orders returns the scope as seen by the order service
func (s *GormTransactionScope) Orders() apporder.TransactionScope {
	return orderTransactionScope{s}
}

// Carts returns the scope as seen by the cart service
func (s *GormTransactionScope) Carts() appcart.TransactionScope {
	return cartTransactionScope{s}
}

// Catalog returns the scope as seen by the catalog service
func (s *GormTransactionScope) Catalog() appcatalog.TransactionScope {
	return catalogTransactionScope{s}
}

type orderTransactionScope struct{ *GormTransactionScope }

func (s orderTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.execute(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type cartTransactionScope struct{ *GormTransactionScope }

func (s cartTransactionScope) Execute(ctx context.Context, fn func(repos appcart.TransactionalRepositories) error) error {
	return s.execute(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type catalogTransactionScope struct{ *GormTransactionScope }

func (s catalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.execute(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx      *gorm.DB
	now     func() time.Time
	cartTTL time.Duration
}

// Orders returns the order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

// Carts returns the cart repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Carts() cart.Repository {
	return NewGormCartRepository(r.tx, r.cartTTL, r.now)
}

// Products returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Ledger returns the stock ledger scoped to the current transaction.
func (r *gormTransactionalRepositories) Ledger() inventory.StockLedger {
	return NewGormStockLedger(r.tx, r.now)
}

var (
	_ apporder.TransactionScope            = orderTransactionScope{}
	_ appcart.TransactionScope             = cartTransactionScope{}
	_ appcatalog.TransactionScope          = catalogTransactionScope{}
	_ apporder.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
	_ appcart.TransactionalRepositories    = (*gormTransactionalRepositories)(nil)
	_ appcatalog.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
