package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/cart"
	"github.com/pantryfresh/backend/internal/domain/catalog"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter, activeOnly bool) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter, activeOnly)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

var testNow = time.Date(2026, time.May, 4, 9, 0, 0, 0, time.UTC)

func newTestService(carts *MockCartRepository, products *MockProductRepository) *Service {
	scope := NewNoOpTransactionScope(carts, products)
	return NewService(scope, carts, 48*time.Hour, nil, zap.NewNop()).WithClock(func() time.Time { return testNow })
}

func newProduct(t *testing.T, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Basmati Rice", "kg", decimal.NewFromInt(price), stock, testNow)
	require.NoError(t, err)
	return p
}

func TestService_GetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("missing cart is an empty view", func(t *testing.T) {
		carts := new(MockCartRepository)
		userID := uuid.New()
		carts.On("FindByUserID", ctx, userID).Return(nil, shared.NewNotFoundError("Cart"))

		resp, err := newTestService(carts, new(MockProductRepository)).GetCart(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.True(t, resp.TotalAmount.IsZero())
		assert.Equal(t, "INR", resp.Currency)
		assert.Nil(t, resp.ExpiresAt)
	})

	t.Run("storage errors are returned", func(t *testing.T) {
		carts := new(MockCartRepository)
		userID := uuid.New()
		carts.On("FindByUserID", ctx, userID).Return(nil, errors.New("connection reset"))

		_, err := newTestService(carts, new(MockProductRepository)).GetCart(ctx, userID)
		assert.EqualError(t, err, "connection reset")
	})
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the cart on first add", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()
		p := newProduct(t, 120, 10)

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		carts.On("FindByUserIDForUpdate", ctx, userID).Return(nil, shared.NewNotFoundError("Cart"))
		carts.On("Save", ctx, mock.MatchedBy(func(c *cart.Cart) bool {
			return c.UserID == userID && len(c.Items) == 1 && c.Items[0].Quantity == 2
		})).Return(nil)

		resp, err := newTestService(carts, products).AddItem(ctx, userID, AddItemRequest{ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.ItemsCount)
		assert.True(t, decimal.NewFromInt(240).Equal(resp.TotalAmount))
		require.NotNil(t, resp.ExpiresAt)
		assert.Equal(t, testNow.Add(48*time.Hour), *resp.ExpiresAt)
		carts.AssertExpectations(t)
	})

	t.Run("captures the sale price", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()
		p := newProduct(t, 100, 10)
		sale := decimal.NewFromInt(80)
		require.NoError(t, p.SetSalePrice(&sale, testNow))

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		carts.On("FindByUserIDForUpdate", ctx, userID).Return(nil, shared.NewNotFoundError("Cart"))
		carts.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := newTestService(carts, products).AddItem(ctx, userID, AddItemRequest{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)
		assert.True(t, sale.Equal(resp.Items[0].Price))
	})

	t.Run("merged quantity above stock is rejected", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()
		p := newProduct(t, 50, 4)
		existing, err := cart.NewCart(userID, testNow)
		require.NoError(t, err)
		_, err = existing.AddItem(cart.ProductSnapshot{ID: p.ID, Name: p.Name, Unit: p.Unit, Price: p.Price}, 3, testNow)
		require.NoError(t, err)

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		carts.On("FindByUserIDForUpdate", ctx, userID).Return(existing, nil)

		_, err = newTestService(carts, products).AddItem(ctx, userID, AddItemRequest{ProductID: p.ID, Quantity: 2})
		assert.True(t, shared.IsKind(err, shared.KindInsufficientStock))
		carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("inactive product is unavailable", func(t *testing.T) {
		products := new(MockProductRepository)
		p := newProduct(t, 50, 4)
		p.Deactivate(testNow)
		products.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := newTestService(new(MockCartRepository), products).AddItem(ctx, uuid.New(), AddItemRequest{ProductID: p.ID, Quantity: 1})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, shared.KindInsufficientStock, de.Kind)
		assert.Equal(t, 0, de.Details["available"])
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		products := new(MockProductRepository)
		id := uuid.New()
		products.On("FindByID", ctx, id).Return(nil, shared.NewNotFoundError("Product"))

		_, err := newTestService(new(MockCartRepository), products).AddItem(ctx, uuid.New(), AddItemRequest{ProductID: id, Quantity: 1})
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
	})

	t.Run("more than the line limit is a validation error", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()
		p := newProduct(t, 5, 500)
		existing, err := cart.NewCart(userID, testNow)
		require.NoError(t, err)
		_, err = existing.AddItem(cart.ProductSnapshot{ID: p.ID, Name: p.Name, Unit: p.Unit, Price: p.Price}, 90, testNow)
		require.NoError(t, err)

		products.On("FindByID", ctx, p.ID).Return(p, nil)
		carts.On("FindByUserIDForUpdate", ctx, userID).Return(existing, nil)

		_, err = newTestService(carts, products).AddItem(ctx, userID, AddItemRequest{ProductID: p.ID, Quantity: 10})
		assert.True(t, shared.IsKind(err, shared.KindValidation))
	})
}

func TestService_UpdateAndRemoveItem(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, stock int) (*MockCartRepository, *MockProductRepository, uuid.UUID, *catalog.Product) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()
		p := newProduct(t, 30, stock)
		existing, err := cart.NewCart(userID, testNow)
		require.NoError(t, err)
		_, err = existing.AddItem(cart.ProductSnapshot{ID: p.ID, Name: p.Name, Unit: p.Unit, Price: p.Price}, 1, testNow)
		require.NoError(t, err)
		carts.On("FindByUserIDForUpdate", ctx, userID).Return(existing, nil)
		products.On("FindByID", ctx, p.ID).Return(p, nil)
		return carts, products, userID, p
	}

	t.Run("sets the quantity", func(t *testing.T) {
		carts, products, userID, p := setup(t, 10)
		carts.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := newTestService(carts, products).UpdateItem(ctx, userID, p.ID, UpdateItemRequest{Quantity: 5})
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Items[0].Quantity)
		assert.True(t, decimal.NewFromInt(150).Equal(resp.TotalAmount))
	})

	t.Run("quantity above stock is rejected", func(t *testing.T) {
		carts, products, userID, p := setup(t, 3)

		_, err := newTestService(carts, products).UpdateItem(ctx, userID, p.ID, UpdateItemRequest{Quantity: 5})
		assert.True(t, shared.IsKind(err, shared.KindInsufficientStock))
	})

	t.Run("line not in cart is not found", func(t *testing.T) {
		carts, products, userID, _ := setup(t, 3)

		_, err := newTestService(carts, products).UpdateItem(ctx, userID, uuid.New(), UpdateItemRequest{Quantity: 1})
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
	})

	t.Run("removes the line", func(t *testing.T) {
		carts, products, userID, p := setup(t, 3)
		carts.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := newTestService(carts, products).RemoveItem(ctx, userID, p.ID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.True(t, resp.TotalAmount.IsZero())
	})

	t.Run("removing from a missing cart is not found", func(t *testing.T) {
		carts := new(MockCartRepository)
		userID := uuid.New()
		carts.On("FindByUserIDForUpdate", ctx, userID).Return(nil, shared.NewNotFoundError("Cart"))

		_, err := newTestService(carts, new(MockProductRepository)).RemoveItem(ctx, userID, uuid.New())
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
	})
}

func TestService_ClearCart(t *testing.T) {
	ctx := context.Background()

	t.Run("clears an existing cart", func(t *testing.T) {
		carts := new(MockCartRepository)
		userID := uuid.New()
		existing, err := cart.NewCart(userID, testNow)
		require.NoError(t, err)
		carts.On("FindByUserIDForUpdate", ctx, userID).Return(existing, nil)
		carts.On("Clear", ctx, existing.ID).Return(nil)

		require.NoError(t, newTestService(carts, new(MockProductRepository)).ClearCart(ctx, userID))
		carts.AssertExpectations(t)
	})

	t.Run("missing cart is a no-op", func(t *testing.T) {
		carts := new(MockCartRepository)
		userID := uuid.New()
		carts.On("FindByUserIDForUpdate", ctx, userID).Return(nil, shared.NewNotFoundError("Cart"))

		require.NoError(t, newTestService(carts, new(MockProductRepository)).ClearCart(ctx, userID))
		carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	})
}
