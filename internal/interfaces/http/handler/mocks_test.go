package handler

import (
	"context"

	"github.com/google/uuid"
	cartapp "github.com/pantryfresh/backend/internal/application/cart"
	catalogapp "github.com/pantryfresh/backend/internal/application/catalog"
	orderapp "github.com/pantryfresh/backend/internal/application/order"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockOrderService implements OrderService for testing
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req orderapp.CreateOrderRequest) (*orderapp.CreateOrderResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.CreateOrderResponse), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, actor order.Actor, orderNumber string, req orderapp.UpdateStatusRequest) (*orderapp.StatusChangeResponse, error) {
	args := m.Called(ctx, actor, orderNumber, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.StatusChangeResponse), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, userID uuid.UUID, orderNumber string, req orderapp.CancelOrderRequest) (*orderapp.CancelOrderResponse, error) {
	args := m.Called(ctx, userID, orderNumber, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.CancelOrderResponse), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, actor order.Actor, orderNumber string) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, actor, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, userID uuid.UUID, query orderapp.ListOrdersQuery) (shared.Paginated[orderapp.OrderListItemResponse], error) {
	args := m.Called(ctx, userID, query)
	return args.Get(0).(shared.Paginated[orderapp.OrderListItemResponse]), args.Error(1)
}

func (m *MockOrderService) ListAllOrders(ctx context.Context, actor order.Actor, query orderapp.ListOrdersQuery) (shared.Paginated[orderapp.OrderListItemResponse], error) {
	args := m.Called(ctx, actor, query)
	return args.Get(0).(shared.Paginated[orderapp.OrderListItemResponse]), args.Error(1)
}

func (m *MockOrderService) Summary(ctx context.Context, userID uuid.UUID) (*orderapp.OrderSummaryResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.OrderSummaryResponse), args.Error(1)
}

// MockCartService implements CartService for testing
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CartResponse), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID uuid.UUID, req cartapp.AddItemRequest) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CartResponse), args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req cartapp.UpdateItemRequest) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CartResponse), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CartResponse), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockProductService implements ProductService for testing
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, query catalogapp.PageQuery) (shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(shared.Paginated[catalogapp.ProductResponse]), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Restock(ctx context.Context, id uuid.UUID, req catalogapp.RestockRequest) (*catalogapp.RestockResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.RestockResponse), args.Error(1)
}

func (m *MockProductService) Movements(ctx context.Context, id uuid.UUID, query catalogapp.PageQuery) (shared.Paginated[catalogapp.StockMovementResponse], error) {
	args := m.Called(ctx, id, query)
	return args.Get(0).(shared.Paginated[catalogapp.StockMovementResponse]), args.Error(1)
}
