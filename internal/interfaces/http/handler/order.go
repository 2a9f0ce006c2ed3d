package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/pantryfresh/backend/internal/application/order"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService is the order use-case surface the handler drives
type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req orderapp.CreateOrderRequest) (*orderapp.CreateOrderResponse, error)
	UpdateStatus(ctx context.Context, actor order.Actor, orderNumber string, req orderapp.UpdateStatusRequest) (*orderapp.StatusChangeResponse, error)
	CancelOrder(ctx context.Context, userID uuid.UUID, orderNumber string, req orderapp.CancelOrderRequest) (*orderapp.CancelOrderResponse, error)
	GetOrder(ctx context.Context, actor order.Actor, orderNumber string) (*orderapp.OrderResponse, error)
	ListOrders(ctx context.Context, userID uuid.UUID, query orderapp.ListOrdersQuery) (shared.Paginated[orderapp.OrderListItemResponse], error)
	ListAllOrders(ctx context.Context, actor order.Actor, query orderapp.ListOrdersQuery) (shared.Paginated[orderapp.OrderListItemResponse], error)
	Summary(ctx context.Context, userID uuid.UUID) (*orderapp.OrderSummaryResponse, error)
}

// OrderHandler handles order endpoints
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{BaseHandler: newBaseHandler(log), orders: orders}
}

// Create checks out the caller's cart
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req orderapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orders.CreateOrder(c.Request.Context(), actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns the caller's orders
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var query orderapp.ListOrdersQuery
	if !h.BindQuery(c, &query) {
		return
	}

	page, err := h.orders.ListOrders(c.Request.Context(), actor.ID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// ListAll returns every customer's orders, optionally filtered by userId
func (h *OrderHandler) ListAll(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var query orderapp.ListOrdersQuery
	if !h.BindQuery(c, &query) {
		return
	}

	page, err := h.orders.ListAllOrders(c.Request.Context(), actor, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Get returns one order. Customers only see their own.
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	resp, err := h.orders.GetOrder(c.Request.Context(), actor, c.Param("orderNumber"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus moves an order to a new status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req orderapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orders.UpdateStatus(c.Request.Context(), actor, c.Param("orderNumber"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel cancels the caller's own order. The body is optional.
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req orderapp.CancelOrderRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orders.CancelOrder(c.Request.Context(), actor.ID, c.Param("orderNumber"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Summary counts the caller's orders per status
func (h *OrderHandler) Summary(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	resp, err := h.orders.Summary(c.Request.Context(), actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
