package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/cart"
	"github.com/pantryfresh/backend/internal/domain/catalog"
	"github.com/pantryfresh/backend/internal/domain/inventory"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memOrderRepository is an in-memory order.Repository
type memOrderRepository struct {
	mu       sync.Mutex
	byNumber map[string]order.Order
	// taken makes Create report a number clash this many times
	taken int
}

func newMemOrderRepository() *memOrderRepository {
	return &memOrderRepository{byNumber: make(map[string]order.Order)}
}

func (r *memOrderRepository) FindByNumber(_ context.Context, number string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byNumber[number]
	if !ok {
		return nil, shared.NewNotFoundError("Order")
	}
	return &o, nil
}

func (r *memOrderRepository) FindByNumberForUpdate(ctx context.Context, number string) (*order.Order, error) {
	return r.FindByNumber(ctx, number)
}

func (r *memOrderRepository) FindAll(_ context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []order.Order
	for _, o := range r.byNumber {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		result = append(result, o)
	}
	return result, int64(len(result)), nil
}

func (r *memOrderRepository) CountByStatus(_ context.Context, userID *uuid.UUID) (map[order.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[order.Status]int64)
	for _, s := range order.AllStatuses() {
		counts[s] = 0
	}
	for _, o := range r.byNumber {
		if userID == nil || o.UserID == *userID {
			counts[o.Status]++
		}
	}
	return counts, nil
}

func (r *memOrderRepository) LastOrderNumberForYear(_ context.Context, year int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	last := ""
	for number := range r.byNumber {
		if y, _, err := order.ParseOrderNumber(number); err == nil && y == year && number > last {
			last = number
		}
	}
	return last, nil
}

func (r *memOrderRepository) Create(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken > 0 {
		r.taken--
		return shared.NewConflictError("ORDER_NUMBER_TAKEN", "taken")
	}
	if _, exists := r.byNumber[o.OrderNumber]; exists {
		return shared.NewConflictError("ORDER_NUMBER_TAKEN", "taken")
	}
	r.byNumber[o.OrderNumber] = *o
	return nil
}

func (r *memOrderRepository) Update(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byNumber[o.OrderNumber]; !exists {
		return shared.NewNotFoundError("Order")
	}
	o.BumpVersion()
	r.byNumber[o.OrderNumber] = *o
	return nil
}

// memCatalog is an in-memory product repository and stock ledger sharing one product map
type memCatalog struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
	reduced  []inventory.MovementReference
}

func newMemCatalog(products ...*catalog.Product) *memCatalog {
	c := &memCatalog{products: make(map[uuid.UUID]*catalog.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *memCatalog) stock(id uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products[id].Stock
}

func (c *memCatalog) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, shared.NewNotFoundError("Product")
	}
	cp := *p
	return &cp, nil
}

func (c *memCatalog) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var result []catalog.Product
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (c *memCatalog) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	return c.FindByIDs(ctx, ids)
}

func (c *memCatalog) FindAll(context.Context, shared.Filter, bool) ([]catalog.Product, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (c *memCatalog) Save(_ context.Context, p *catalog.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
	return nil
}

func (c *memCatalog) Reduce(_ context.Context, adjustments []inventory.StockAdjustment, ref inventory.MovementReference) error {
	merged, err := inventory.MergeAdjustments(adjustments)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, adj := range merged {
		p := c.products[adj.ProductID]
		if p.Stock < adj.Quantity {
			return shared.NewInsufficientStockError(p.ID.String(), p.Name, p.Stock, adj.Quantity)
		}
	}
	for _, adj := range merged {
		c.products[adj.ProductID].Stock -= adj.Quantity
	}
	c.reduced = append(c.reduced, ref)
	return nil
}

func (c *memCatalog) Restore(_ context.Context, adjustments []inventory.StockAdjustment, _ inventory.MovementReference) ([]inventory.RestoredStock, error) {
	merged, err := inventory.MergeAdjustments(adjustments)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	restored := make([]inventory.RestoredStock, 0, len(merged))
	for _, adj := range merged {
		p := c.products[adj.ProductID]
		p.Stock += adj.Quantity
		restored = append(restored, inventory.RestoredStock{
			ProductID:        p.ID,
			ProductName:      p.Name,
			QuantityRestored: adj.Quantity,
			StockAfter:       p.Stock,
		})
	}
	return restored, nil
}

// memCartRepository is an in-memory cart.Repository
type memCartRepository struct {
	mu     sync.Mutex
	byUser map[uuid.UUID]*cart.Cart
}

func newMemCartRepository() *memCartRepository {
	return &memCartRepository{byUser: make(map[uuid.UUID]*cart.Cart)}
}

func (r *memCartRepository) FindByUserID(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byUser[userID]
	if !ok {
		return nil, shared.NewNotFoundError("Cart")
	}
	return c, nil
}

func (r *memCartRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return r.FindByUserID(ctx, userID)
}

func (r *memCartRepository) Save(_ context.Context, c *cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[c.UserID] = c
	return nil
}

func (r *memCartRepository) Clear(_ context.Context, cartID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byUser {
		if c.ID == cartID {
			c.Clear(time.Now())
			return nil
		}
	}
	return shared.NewNotFoundError("Cart")
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

var fixedNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

type serviceFixture struct {
	service   *Service
	orders    *memOrderRepository
	carts     *memCartRepository
	catalog   *memCatalog
	publisher *MockEventPublisher
}

func newServiceFixture(t *testing.T, products ...*catalog.Product) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		orders:    newMemOrderRepository(),
		carts:     newMemCartRepository(),
		catalog:   newMemCatalog(products...),
		publisher: new(MockEventPublisher),
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	scope := NewNoOpTransactionScope(f.orders, f.carts, f.catalog, f.catalog)
	f.service = NewService(scope, f.orders, DefaultServiceConfig(), zap.NewNop()).WithClock(func() time.Time { return fixedNow })
	f.service.SetEventPublisher(f.publisher)
	return f
}

func newTestProduct(t *testing.T, name string, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "pcs", decimal.NewFromInt(price), stock, fixedNow)
	require.NoError(t, err)
	return p
}

func (f *serviceFixture) fillCart(t *testing.T, userID uuid.UUID, lines map[*catalog.Product]int) {
	t.Helper()
	c, err := cart.NewCart(userID, fixedNow)
	require.NoError(t, err)
	for p, qty := range lines {
		_, err := c.AddItem(cart.ProductSnapshot{ID: p.ID, Name: p.Name, Unit: p.Unit, Price: p.EffectivePrice()}, qty, fixedNow)
		require.NoError(t, err)
	}
	require.NoError(t, f.carts.Save(context.Background(), c))
}

func validCheckout() CreateOrderRequest {
	return CreateOrderRequest{
		DeliveryAddress: AddressInput{
			FullName: "Asha Rao",
			Phone:    "9876543210",
			Line1:    "12 MG Road",
			City:     "Bengaluru",
			State:    "Karnataka",
			Pincode:  "560001",
		},
		DeliverySlot:  "Morning",
		PaymentMethod: "cod",
	}
}

func customer(id uuid.UUID) order.Actor {
	return order.Actor{ID: id, Role: order.ActorRoleCustomer}
}

func admin() order.Actor {
	return order.Actor{ID: uuid.New(), Role: order.ActorRoleAdmin}
}

func TestService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("places order, reduces stock and empties cart", func(t *testing.T) {
		a := newTestProduct(t, "Tomatoes", 50, 10)
		b := newTestProduct(t, "Paneer", 100, 5)
		f := newServiceFixture(t, a, b)
		userID := uuid.New()
		f.fillCart(t, userID, map[*catalog.Product]int{a: 2, b: 1})

		resp, err := f.service.CreateOrder(ctx, userID, validCheckout())
		require.NoError(t, err)

		assert.Equal(t, "PF-2026-000001", resp.OrderNumber)
		assert.Equal(t, 2, resp.ItemsCount)
		assert.Equal(t, "PENDING", resp.Status)
		assert.True(t, decimal.NewFromInt(200).Equal(resp.Totals.Subtotal))
		assert.True(t, decimal.NewFromInt(40).Equal(resp.Totals.DeliveryFee))
		assert.True(t, decimal.NewFromInt(240).Equal(resp.TotalAmount))
		assert.Equal(t, "INR", resp.Totals.Currency)

		assert.Equal(t, 8, f.catalog.stock(a.ID))
		assert.Equal(t, 4, f.catalog.stock(b.ID))

		c, err := f.carts.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())

		stored, err := f.orders.FindByNumber(ctx, resp.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, order.PaymentMethodCOD, stored.PaymentMethod)
		assert.Len(t, stored.Timeline, 1)
		require.Len(t, f.catalog.reduced, 1)
		assert.Equal(t, inventory.MovementReasonOrderPlaced, f.catalog.reduced[0].Reason)
		assert.Equal(t, resp.OrderNumber, f.catalog.reduced[0].Reference)

		f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("numbers follow the year's last order", func(t *testing.T) {
		a := newTestProduct(t, "Rice", 60, 10)
		f := newServiceFixture(t, a)

		first := uuid.New()
		f.fillCart(t, first, map[*catalog.Product]int{a: 1})
		resp, err := f.service.CreateOrder(ctx, first, validCheckout())
		require.NoError(t, err)
		assert.Equal(t, "PF-2026-000001", resp.OrderNumber)

		second := uuid.New()
		f.fillCart(t, second, map[*catalog.Product]int{a: 1})
		resp, err = f.service.CreateOrder(ctx, second, validCheckout())
		require.NoError(t, err)
		assert.Equal(t, "PF-2026-000002", resp.OrderNumber)
	})

	t.Run("insufficient stock leaves everything untouched", func(t *testing.T) {
		a := newTestProduct(t, "Mangoes", 80, 1)
		f := newServiceFixture(t, a)
		userID := uuid.New()
		f.fillCart(t, userID, map[*catalog.Product]int{a: 3})

		_, err := f.service.CreateOrder(ctx, userID, validCheckout())
		require.Error(t, err)
		assert.True(t, shared.IsKind(err, shared.KindInsufficientStock))

		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 1, de.Details["available"])
		assert.Equal(t, 3, de.Details["requested"])

		assert.Equal(t, 1, f.catalog.stock(a.ID))
		assert.Empty(t, f.orders.byNumber)
		c, _ := f.carts.FindByUserID(ctx, userID)
		assert.False(t, c.IsEmpty())
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("inactive product reports zero available", func(t *testing.T) {
		a := newTestProduct(t, "Bread", 40, 10)
		f := newServiceFixture(t, a)
		userID := uuid.New()
		f.fillCart(t, userID, map[*catalog.Product]int{a: 1})
		a.Deactivate(fixedNow)

		_, err := f.service.CreateOrder(ctx, userID, validCheckout())
		require.Error(t, err)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, shared.KindInsufficientStock, de.Kind)
		assert.Equal(t, 0, de.Details["available"])
	})

	t.Run("missing cart is an empty cart", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.service.CreateOrder(ctx, uuid.New(), validCheckout())
		assert.True(t, shared.IsKind(err, shared.KindEmptyCart))
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		userID := uuid.New()
		f.fillCart(t, userID, nil)
		_, err := f.service.CreateOrder(ctx, userID, validCheckout())
		assert.True(t, shared.IsKind(err, shared.KindEmptyCart))
	})

	t.Run("invalid pincode is a validation error", func(t *testing.T) {
		f := newServiceFixture(t)
		req := validCheckout()
		req.DeliveryAddress.Pincode = "012345"
		_, err := f.service.CreateOrder(ctx, uuid.New(), req)
		assert.True(t, shared.IsKind(err, shared.KindValidation))
	})

	t.Run("unknown payment method is a validation error", func(t *testing.T) {
		f := newServiceFixture(t)
		req := validCheckout()
		req.PaymentMethod = "BITCOIN"
		_, err := f.service.CreateOrder(ctx, uuid.New(), req)
		assert.True(t, shared.IsKind(err, shared.KindValidation))
	})

	t.Run("retries after an order number clash", func(t *testing.T) {
		a := newTestProduct(t, "Eggs", 90, 10)
		f := newServiceFixture(t, a)
		f.orders.taken = 2
		userID := uuid.New()
		f.fillCart(t, userID, map[*catalog.Product]int{a: 1})

		resp, err := f.service.CreateOrder(ctx, userID, validCheckout())
		require.NoError(t, err)
		assert.Equal(t, "PF-2026-000001", resp.OrderNumber)
		assert.Equal(t, 9, f.catalog.stock(a.ID))
	})

	t.Run("gives up after the configured attempts", func(t *testing.T) {
		a := newTestProduct(t, "Milk", 30, 10)
		f := newServiceFixture(t, a)
		f.orders.taken = DefaultMaxNumberAttempts
		userID := uuid.New()
		f.fillCart(t, userID, map[*catalog.Product]int{a: 1})

		_, err := f.service.CreateOrder(ctx, userID, validCheckout())
		assert.True(t, shared.IsKind(err, shared.KindConflict))
		assert.Equal(t, 10, f.catalog.stock(a.ID))
	})
}

func placeOrder(t *testing.T, f *serviceFixture, userID uuid.UUID, lines map[*catalog.Product]int) string {
	t.Helper()
	f.fillCart(t, userID, lines)
	resp, err := f.service.CreateOrder(context.Background(), userID, validCheckout())
	require.NoError(t, err)
	return resp.OrderNumber
}

func TestService_CancelOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("cancellation restores stock", func(t *testing.T) {
		a := newTestProduct(t, "Onions", 35, 13)
		f := newServiceFixture(t, a)
		userID := uuid.New()
		number := placeOrder(t, f, userID, map[*catalog.Product]int{a: 3})
		require.Equal(t, 10, f.catalog.stock(a.ID))

		resp, err := f.service.CancelOrder(ctx, userID, number, CancelOrderRequest{Reason: "Ordered by mistake"})
		require.NoError(t, err)

		assert.Equal(t, 13, f.catalog.stock(a.ID))
		assert.Equal(t, "PENDING", resp.CancellationInfo.PreviousStatus)
		assert.Equal(t, "CANCELLED", resp.CancellationInfo.Status)
		assert.Equal(t, "Ordered by mistake", resp.CancellationInfo.Reason)
		assert.Equal(t, fixedNow, resp.CancellationInfo.CancelledAt)
		require.Len(t, resp.StockRestored, 1)
		assert.Equal(t, 3, resp.StockRestored[0].QuantityRestored)
		assert.Equal(t, 13, resp.StockRestored[0].StockAfter)

		stored, err := f.orders.FindByNumber(ctx, number)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, stored.Status)
		assert.Len(t, stored.Timeline, 2)
	})

	t.Run("other users' orders are not found", func(t *testing.T) {
		a := newTestProduct(t, "Garlic", 20, 5)
		f := newServiceFixture(t, a)
		number := placeOrder(t, f, uuid.New(), map[*catalog.Product]int{a: 1})

		_, err := f.service.CancelOrder(ctx, uuid.New(), number, CancelOrderRequest{})
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
		assert.Equal(t, 4, f.catalog.stock(a.ID))
	})

	t.Run("shipped orders cannot be cancelled", func(t *testing.T) {
		a := newTestProduct(t, "Ginger", 25, 5)
		f := newServiceFixture(t, a)
		userID := uuid.New()
		number := placeOrder(t, f, userID, map[*catalog.Product]int{a: 1})
		for _, status := range []string{"CONFIRMED", "PROCESSING", "SHIPPED"} {
			_, err := f.service.UpdateStatus(ctx, admin(), number, UpdateStatusRequest{Status: status})
			require.NoError(t, err)
		}

		_, err := f.service.CancelOrder(ctx, userID, number, CancelOrderRequest{})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "ORDER_NOT_CANCELLABLE", de.Code)
		assert.Equal(t, 4, f.catalog.stock(a.ID))
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("admin moves order forward", func(t *testing.T) {
		a := newTestProduct(t, "Apples", 120, 5)
		f := newServiceFixture(t, a)
		number := placeOrder(t, f, uuid.New(), map[*catalog.Product]int{a: 1})
		notes := "Call before delivery"

		resp, err := f.service.UpdateStatus(ctx, admin(), number, UpdateStatusRequest{Status: "confirmed", AdminNotes: &notes})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.PreviousStatus)
		assert.Equal(t, "CONFIRMED", resp.NewStatus)
		assert.Empty(t, resp.StockRestored)

		stored, _ := f.orders.FindByNumber(ctx, number)
		assert.Equal(t, notes, stored.AdminNotes)
	})

	t.Run("invalid transition is rejected and status kept", func(t *testing.T) {
		a := newTestProduct(t, "Pears", 110, 5)
		f := newServiceFixture(t, a)
		number := placeOrder(t, f, uuid.New(), map[*catalog.Product]int{a: 1})
		for _, status := range []string{"CONFIRMED", "PROCESSING", "SHIPPED"} {
			_, err := f.service.UpdateStatus(ctx, admin(), number, UpdateStatusRequest{Status: status})
			require.NoError(t, err)
		}

		_, err := f.service.UpdateStatus(ctx, admin(), number, UpdateStatusRequest{Status: "PENDING"})
		assert.True(t, shared.IsKind(err, shared.KindInvalidTransition))

		stored, _ := f.orders.FindByNumber(ctx, number)
		assert.Equal(t, order.StatusShipped, stored.Status)
	})

	t.Run("admin cancellation restores stock", func(t *testing.T) {
		a := newTestProduct(t, "Grapes", 90, 10)
		f := newServiceFixture(t, a)
		number := placeOrder(t, f, uuid.New(), map[*catalog.Product]int{a: 4})

		resp, err := f.service.UpdateStatus(ctx, admin(), number, UpdateStatusRequest{Status: "CANCELLED", Note: "Out of delivery area"})
		require.NoError(t, err)
		require.Len(t, resp.StockRestored, 1)
		assert.Equal(t, 10, f.catalog.stock(a.ID))

		stored, _ := f.orders.FindByNumber(ctx, number)
		assert.Equal(t, "Out of delivery area", stored.CancellationReason)
	})

	t.Run("admin notes become the cancellation reason", func(t *testing.T) {
		a := newTestProduct(t, "Melons", 80, 3)
		f := newServiceFixture(t, a)
		number := placeOrder(t, f, uuid.New(), map[*catalog.Product]int{a: 1})
		notes := "damaged"

		_, err := f.service.UpdateStatus(ctx, admin(), number, UpdateStatusRequest{Status: "CANCELLED", AdminNotes: &notes})
		require.NoError(t, err)

		stored, _ := f.orders.FindByNumber(ctx, number)
		assert.Equal(t, "damaged", stored.CancellationReason)
		assert.Equal(t, "damaged", stored.AdminNotes)
		require.Len(t, stored.Timeline, 2)
		assert.Equal(t, "damaged", stored.Timeline[1].Note)
	})

	t.Run("admin cancellation without notes uses the default reason", func(t *testing.T) {
		a := newTestProduct(t, "Plums", 70, 3)
		f := newServiceFixture(t, a)
		number := placeOrder(t, f, uuid.New(), map[*catalog.Product]int{a: 1})

		_, err := f.service.UpdateStatus(ctx, admin(), number, UpdateStatusRequest{Status: "CANCELLED"})
		require.NoError(t, err)

		stored, _ := f.orders.FindByNumber(ctx, number)
		assert.Equal(t, "Cancelled by admin", stored.CancellationReason)
	})

	t.Run("customers cannot change status", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.service.UpdateStatus(ctx, customer(uuid.New()), "PF-2026-000001", UpdateStatusRequest{Status: "CONFIRMED"})
		assert.True(t, shared.IsKind(err, shared.KindForbidden))
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.service.UpdateStatus(ctx, admin(), "PF-2026-000001", UpdateStatusRequest{Status: "LOST"})
		assert.True(t, shared.IsKind(err, shared.KindValidation))
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.service.UpdateStatus(ctx, admin(), "PF-2026-999999", UpdateStatusRequest{Status: "CONFIRMED"})
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
	})
}

func TestService_Queries(t *testing.T) {
	ctx := context.Background()
	a := newTestProduct(t, "Lentils", 150, 20)
	f := newServiceFixture(t, a)
	owner := uuid.New()
	number := placeOrder(t, f, owner, map[*catalog.Product]int{a: 2})
	placeOrder(t, f, uuid.New(), map[*catalog.Product]int{a: 1})

	t.Run("owner sees the order detail", func(t *testing.T) {
		resp, err := f.service.GetOrder(ctx, customer(owner), number)
		require.NoError(t, err)
		assert.Equal(t, number, resp.OrderNumber)
		assert.True(t, resp.CanCancel)
		assert.Equal(t, []string{"CONFIRMED", "CANCELLED"}, resp.AllowedTransitions)
		require.Len(t, resp.Timeline, 1)
		assert.Equal(t, "PENDING", resp.Timeline[0].NewStatus)
	})

	t.Run("other customers do not", func(t *testing.T) {
		_, err := f.service.GetOrder(ctx, customer(uuid.New()), number)
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
	})

	t.Run("admin sees any order", func(t *testing.T) {
		_, err := f.service.GetOrder(ctx, admin(), number)
		assert.NoError(t, err)
	})

	t.Run("listing is scoped to the user", func(t *testing.T) {
		page, err := f.service.ListOrders(ctx, owner, ListOrdersQuery{UserID: uuid.New().String()})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, number, page.Items[0].OrderNumber)
	})

	t.Run("admin listing spans users", func(t *testing.T) {
		page, err := f.service.ListAllOrders(ctx, admin(), ListOrdersQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)

		_, err = f.service.ListAllOrders(ctx, customer(owner), ListOrdersQuery{})
		assert.True(t, shared.IsKind(err, shared.KindForbidden))
	})

	t.Run("summary counts by status", func(t *testing.T) {
		summary, err := f.service.Summary(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(1), summary.Counts["PENDING"])
		assert.Equal(t, int64(0), summary.Counts["DELIVERED"])
		assert.Equal(t, int64(1), summary.Total)
		assert.Equal(t, int64(1), summary.Active)
	})
}
