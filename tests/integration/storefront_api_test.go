package integration

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	appcart "github.com/pantryfresh/backend/internal/application/cart"
	appcatalog "github.com/pantryfresh/backend/internal/application/catalog"
	apporder "github.com/pantryfresh/backend/internal/application/order"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/infrastructure/auth"
	"github.com/pantryfresh/backend/internal/interfaces/http/dto"
	"github.com/pantryfresh/backend/internal/interfaces/http/middleware"
	"github.com/pantryfresh/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorefrontAPI_ShoppingJourney(t *testing.T) {
	sf := NewStorefront(t)

	shopper := uuid.New()
	api := sf.Client(t, shopper, auth.RoleCustomer)
	adminAPI := sf.Client(t, testutil.TestAdminID(), auth.RoleAdmin)
	public := testutil.NewAPIClient(sf.Engine)

	// admin stocks the shelves
	w := adminAPI.Do(t, http.MethodPost, "/api/v1/admin/products", testutil.RandomProduct(5))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := testutil.DecodeData[appcatalog.ProductResponse](t, w)

	w = public.Do(t, http.MethodGet, "/api/v1/products?page=1&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := testutil.DecodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	// cart
	w = api.Do(t, http.MethodPost, "/api/v1/cart/items", appcart.AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cartView := testutil.DecodeData[appcart.CartResponse](t, w)
	assert.Equal(t, 2, cartView.TotalQuantity)

	w = api.Do(t, http.MethodPut, "/api/v1/cart/items/"+product.ID.String(), appcart.UpdateItemRequest{Quantity: 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// checkout with a retry-safe key
	checkout := testutil.RandomCheckout("cod")
	keyed := api.WithHeader(middleware.IdempotencyKeyHeader, uuid.NewString())

	w = keyed.Do(t, http.MethodPost, "/api/v1/orders/create", checkout)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placed := testutil.DecodeData[apporder.CreateOrderResponse](t, w)
	assert.Regexp(t, orderNumberPattern, placed.OrderNumber)
	assert.Equal(t, 2, sf.Stock(t, product.ID))

	replay := keyed.Do(t, http.MethodPost, "/api/v1/orders/create", checkout)
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get(middleware.IdempotentReplayHeader))
	assert.Equal(t, placed.OrderNumber, testutil.DecodeData[apporder.CreateOrderResponse](t, replay).OrderNumber)
	assert.Equal(t, 2, sf.Stock(t, product.ID), "a replay must not place a second order")

	// a fresh key sees the emptied cart
	w = api.WithHeader(middleware.IdempotencyKeyHeader, uuid.NewString()).Do(t, http.MethodPost, "/api/v1/orders/create", checkout)
	testutil.RequireErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeEmptyCart)

	// order views
	w = api.Do(t, http.MethodGet, "/api/v1/orders/"+placed.OrderNumber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := testutil.DecodeData[apporder.OrderResponse](t, w)
	assert.Equal(t, string(order.PaymentMethodCOD), detail.PaymentMethod)
	assert.Equal(t, checkout.DeliveryAddress.Pincode, detail.DeliveryAddress.Pincode)

	w = api.Do(t, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), testutil.DecodeEnvelope(t, w).Meta.Total)

	// admin moves it along, the customer can no longer cancel
	w = api.Do(t, http.MethodPut, "/api/v1/orders/"+placed.OrderNumber+"/status", apporder.UpdateStatusRequest{Status: "CONFIRMED"})
	testutil.RequireErrorCode(t, w, http.StatusForbidden, dto.ErrCodeForbidden)

	for _, status := range []string{"CONFIRMED", "PROCESSING", "SHIPPED"} {
		w = adminAPI.Do(t, http.MethodPut, "/api/v1/orders/"+placed.OrderNumber+"/status", apporder.UpdateStatusRequest{Status: status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = api.Do(t, http.MethodPut, "/api/v1/orders/"+placed.OrderNumber+"/cancel", apporder.CancelOrderRequest{Reason: "too slow"})
	testutil.RequireErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeNotCancellable)

	w = adminAPI.Do(t, http.MethodPut, "/api/v1/orders/"+placed.OrderNumber+"/status", apporder.UpdateStatusRequest{Status: "PENDING"})
	info := testutil.RequireErrorCode(t, w, http.StatusConflict, dto.ErrCodeInvalidTransition)
	assert.Equal(t, "SHIPPED", info.Details["current_status"])

	w = adminAPI.Do(t, http.MethodGet, "/api/v1/admin/orders?userId="+shopper.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), testutil.DecodeEnvelope(t, w).Meta.Total)
}

func TestStorefrontAPI_CancelRestoresStock(t *testing.T) {
	sf := NewStorefront(t)

	shopper := uuid.New()
	api := sf.Client(t, shopper, auth.RoleCustomer)
	product := sf.CreateProduct(t, 4)
	sf.FillCart(t, shopper, 4, product.ID)

	w := api.Do(t, http.MethodPost, "/api/v1/orders/create", testutil.RandomCheckout("UPI"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placed := testutil.DecodeData[apporder.CreateOrderResponse](t, w)
	assert.Equal(t, 0, sf.Stock(t, product.ID))

	// sold out products cannot be carted
	other := sf.Client(t, uuid.New(), auth.RoleCustomer)
	w = other.Do(t, http.MethodPost, "/api/v1/cart/items", appcart.AddItemRequest{ProductID: product.ID, Quantity: 1})
	testutil.RequireErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeInsufficientStock)

	// someone else's order looks missing
	w = other.Do(t, http.MethodPut, "/api/v1/orders/"+placed.OrderNumber+"/cancel", nil)
	testutil.RequireErrorCode(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

	w = api.Do(t, http.MethodPut, "/api/v1/orders/"+placed.OrderNumber+"/cancel", apporder.CancelOrderRequest{Reason: "ordered twice"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cancelled := testutil.DecodeData[apporder.CancelOrderResponse](t, w)
	require.Len(t, cancelled.StockRestored, 1)
	assert.Equal(t, 4, cancelled.StockRestored[0].QuantityRestored)
	assert.Equal(t, 4, sf.Stock(t, product.ID))

	w = api.Do(t, http.MethodGet, "/api/v1/orders/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := testutil.DecodeData[apporder.OrderSummaryResponse](t, w)
	assert.Equal(t, int64(1), summary.Counts["CANCELLED"])
	assert.Equal(t, int64(0), summary.Active)
}

func TestStorefrontAPI_AuthAndValidation(t *testing.T) {
	sf := NewStorefront(t)
	public := testutil.NewAPIClient(sf.Engine)
	api := sf.Client(t, uuid.New(), auth.RoleCustomer)

	w := public.Do(t, http.MethodGet, "/api/v1/orders", nil)
	testutil.RequireErrorCode(t, w, http.StatusUnauthorized, dto.ErrCodeTokenInvalid)

	w = api.Do(t, http.MethodGet, "/api/v1/admin/orders", nil)
	testutil.RequireErrorCode(t, w, http.StatusForbidden, dto.ErrCodeForbidden)

	bad := testutil.RandomCheckout("COD")
	bad.DeliveryAddress.Pincode = "01234"
	w = api.Do(t, http.MethodPost, "/api/v1/orders/create", bad)
	info := testutil.RequireErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	fields, ok := info.Details["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "deliveryAddress.pincode")

	w = api.Do(t, http.MethodGet, "/api/v1/orders/PF-2024-000001", nil)
	testutil.RequireErrorCode(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

	w = public.Do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
