package integration

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	appcatalog "github.com/pantryfresh/backend/internal/application/catalog"
	apporder "github.com/pantryfresh/backend/internal/application/order"
	"github.com/pantryfresh/backend/internal/domain/inventory"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/tests/testutil"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var orderNumberPattern = regexp.MustCompile(`^PF-\d{4}-\d{6}$`)

type checkoutFlowSuite struct {
	suite.Suite
	sf *Storefront
}

func TestCheckoutFlowSuite(t *testing.T) {
	suite.Run(t, new(checkoutFlowSuite))
}

func (s *checkoutFlowSuite) SetupTest() {
	s.sf = NewStorefront(s.T())
}

func (s *checkoutFlowSuite) checkout(userID uuid.UUID) (*apporder.CreateOrderResponse, error) {
	return s.sf.Orders.CreateOrder(context.Background(), userID,
		testutil.RandomCheckout(string(order.PaymentMethodUPI)))
}

func (s *checkoutFlowSuite) TestCheckoutReducesStockAndClearsCart() {
	t := s.T()
	ctx := context.Background()
	userID := uuid.New()

	milk := s.sf.CreateProduct(t, 10)
	bread := s.sf.CreateProduct(t, 4)
	s.sf.FillCart(t, userID, 2, milk.ID, bread.ID)

	placed, err := s.checkout(userID)
	require.NoError(t, err)

	assert.Regexp(t, orderNumberPattern, placed.OrderNumber)
	assert.Equal(t, string(order.StatusPending), placed.Status)
	assert.Equal(t, 2, placed.ItemsCount)

	subtotal := milk.EffectivePrice.Mul(decimal.NewFromInt(2)).Add(bread.EffectivePrice.Mul(decimal.NewFromInt(2)))
	assert.True(t, placed.Totals.Subtotal.Equal(subtotal), "subtotal %s != %s", placed.Totals.Subtotal, subtotal)
	assert.True(t, placed.TotalAmount.Equal(placed.Totals.Subtotal.Add(placed.Totals.DeliveryFee).Add(placed.Totals.TaxAmount).Sub(placed.Totals.Discount)))

	assert.Equal(t, 8, s.sf.Stock(t, milk.ID))
	assert.Equal(t, 2, s.sf.Stock(t, bread.ID))

	cartView, err := s.sf.Carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cartView.Items)

	detail, err := s.sf.Orders.GetOrder(ctx, order.Actor{ID: userID, Role: order.ActorRoleCustomer}, placed.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, userID, detail.UserID)
	assert.Len(t, detail.Items, 2)
	assert.True(t, detail.CanCancel)

	created := testutil.WaitForEvents(t, s.sf.Events, order.EventTypeOrderCreated, 1, 5*time.Second)
	ev, ok := created[0].(*order.OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, placed.OrderNumber, ev.OrderNumber)
	assert.Equal(t, order.PaymentMethodUPI, ev.PaymentMethod)
}

func (s *checkoutFlowSuite) TestEmptyCartIsRejected() {
	t := s.T()

	_, err := s.checkout(uuid.New())

	assert.True(t, shared.IsKind(err, shared.KindEmptyCart), "got %v", err)
}

func (s *checkoutFlowSuite) TestStockDroppedAfterCartingFailsWholeOrder() {
	t := s.T()
	ctx := context.Background()
	userID := uuid.New()

	eggs := s.sf.CreateProduct(t, 6)
	rice := s.sf.CreateProduct(t, 5)
	s.sf.FillCart(t, userID, 3, eggs.ID, rice.ID)

	// another shopper takes most of the rice first
	other := uuid.New()
	s.sf.FillCart(t, other, 4, rice.ID)
	_, err := s.checkout(other)
	require.NoError(t, err)

	_, err = s.checkout(userID)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindInsufficientStock), "got %v", err)

	// nothing from the failed checkout is kept
	assert.Equal(t, 6, s.sf.Stock(t, eggs.ID))
	assert.Equal(t, 1, s.sf.Stock(t, rice.ID))
	cartView, err := s.sf.Carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cartView.Items, 2)
}

func (s *checkoutFlowSuite) TestConcurrentCheckoutsNeverOversell() {
	t := s.T()

	const stock, shoppers = 3, 8
	item := s.sf.CreateProduct(t, stock)

	users := make([]uuid.UUID, shoppers)
	for i := range users {
		users[i] = uuid.New()
		s.sf.FillCart(t, users[i], 1, item.ID)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []string
		errs    []error
	)
	for _, userID := range users {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			placed, err := s.checkout(userID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, placed.OrderNumber)
		}(userID)
	}
	wg.Wait()

	assert.Len(t, numbers, stock)
	assert.Len(t, lo.Uniq(numbers), stock, "order numbers must be unique")
	require.Len(t, errs, shoppers-stock)
	for _, err := range errs {
		assert.True(t, shared.IsKind(err, shared.KindInsufficientStock), "got %v", err)
	}
	assert.Equal(t, 0, s.sf.Stock(t, item.ID))
}

func (s *checkoutFlowSuite) TestCancelRestoresStockAndJournals() {
	t := s.T()
	ctx := context.Background()
	userID := uuid.New()

	flour := s.sf.CreateProduct(t, 5)
	s.sf.FillCart(t, userID, 2, flour.ID)
	placed, err := s.checkout(userID)
	require.NoError(t, err)

	_, err = s.sf.Products.Restock(ctx, flour.ID, appcatalog.RestockRequest{Quantity: 7, Note: "weekly delivery"})
	require.NoError(t, err)

	cancelled, err := s.sf.Orders.CancelOrder(ctx, userID, placed.OrderNumber, apporder.CancelOrderRequest{Reason: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusPending), cancelled.CancellationInfo.PreviousStatus)
	assert.Equal(t, string(order.StatusCancelled), cancelled.CancellationInfo.Status)
	require.Len(t, cancelled.StockRestored, 1)
	assert.Equal(t, 12, cancelled.StockRestored[0].StockAfter)
	assert.Equal(t, 12, s.sf.Stock(t, flour.ID))

	movements, err := s.sf.Products.Movements(ctx, flour.ID, appcatalog.PageQuery{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "asc"})
	require.NoError(t, err)

	want := []appcatalog.StockMovementResponse{
		{Delta: -2, Reason: string(inventory.MovementReasonOrderPlaced), Reference: placed.OrderNumber, StockAfter: 3},
		{Delta: 7, Reason: string(inventory.MovementReasonRestock), Reference: "weekly delivery", StockAfter: 10},
		{Delta: 2, Reason: string(inventory.MovementReasonOrderCancelled), Reference: placed.OrderNumber, StockAfter: 12},
	}
	opts := cmp.Options{cmpopts.IgnoreFields(appcatalog.StockMovementResponse{}, "ID", "CreatedAt")}
	if diff := cmp.Diff(want, movements.Items, opts); diff != "" {
		t.Errorf("stock movements mismatch (-want +got):\n%s", diff)
	}

	// a second cancel must not restore twice
	_, err = s.sf.Orders.CancelOrder(ctx, userID, placed.OrderNumber, apporder.CancelOrderRequest{})
	assert.True(t, shared.IsKind(err, shared.KindInvalidTransition), "got %v", err)
	assert.Equal(t, 12, s.sf.Stock(t, flour.ID))

	testutil.WaitForEvents(t, s.sf.Events, order.EventTypeOrderCancelled, 1, 5*time.Second)
}

func (s *checkoutFlowSuite) TestAdminLifecycle() {
	t := s.T()
	ctx := context.Background()
	userID := uuid.New()

	item := s.sf.CreateProduct(t, 5)
	s.sf.FillCart(t, userID, 1, item.ID)
	placed, err := s.checkout(userID)
	require.NoError(t, err)

	for _, next := range []order.Status{order.StatusConfirmed, order.StatusProcessing, order.StatusShipped} {
		resp, err := s.sf.Orders.UpdateStatus(ctx, admin(), placed.OrderNumber, apporder.UpdateStatusRequest{Status: string(next)})
		require.NoError(t, err, "moving to %s", next)
		assert.Equal(t, string(next), resp.NewStatus)
	}

	// shipped orders are out of the customer's hands
	_, err = s.sf.Orders.CancelOrder(ctx, userID, placed.OrderNumber, apporder.CancelOrderRequest{})
	assert.True(t, shared.IsKind(err, shared.KindInvalidTransition), "got %v", err)

	// skipping ahead is refused
	_, err = s.sf.Orders.UpdateStatus(ctx, admin(), placed.OrderNumber, apporder.UpdateStatusRequest{Status: string(order.StatusPending)})
	assert.True(t, shared.IsKind(err, shared.KindInvalidTransition), "got %v", err)

	resp, err := s.sf.Orders.UpdateStatus(ctx, admin(), placed.OrderNumber, apporder.UpdateStatusRequest{Status: string(order.StatusDelivered)})
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusShipped), resp.PreviousStatus)
	assert.Equal(t, 4, s.sf.Stock(t, item.ID))

	testutil.WaitForEvents(t, s.sf.Events, order.EventTypeOrderStatusChanged, 4, 5*time.Second)

	summary, err := s.sf.Orders.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Total)
	assert.Equal(t, int64(1), summary.Counts[string(order.StatusDelivered)])
}

func (s *checkoutFlowSuite) TestOrdersAreHiddenFromOtherCustomers() {
	t := s.T()
	ctx := context.Background()
	owner := uuid.New()

	item := s.sf.CreateProduct(t, 5)
	s.sf.FillCart(t, owner, 1, item.ID)
	placed, err := s.checkout(owner)
	require.NoError(t, err)

	_, err = s.sf.Orders.GetOrder(ctx, customer(), placed.OrderNumber)
	assert.True(t, shared.IsKind(err, shared.KindNotFound), "got %v", err)

	_, err = s.sf.Orders.CancelOrder(ctx, uuid.New(), placed.OrderNumber, apporder.CancelOrderRequest{})
	assert.True(t, shared.IsKind(err, shared.KindNotFound), "got %v", err)

	detail, err := s.sf.Orders.GetOrder(ctx, admin(), placed.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, owner, detail.UserID)
}

func (s *checkoutFlowSuite) TestOrderListingPaginates() {
	t := s.T()
	ctx := context.Background()
	userID := uuid.New()

	item := s.sf.CreateProduct(t, 50)
	for i := 0; i < 3; i++ {
		s.sf.FillCart(t, userID, 1, item.ID)
		_, err := s.checkout(userID)
		require.NoError(t, err, "checkout %d", i)
	}

	page, err := s.sf.Orders.ListOrders(ctx, userID, apporder.ListOrdersQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalPages)

	all, err := s.sf.Orders.ListAllOrders(ctx, admin(), apporder.ListOrdersQuery{UserID: userID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
}
