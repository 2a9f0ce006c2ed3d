package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/pantryfresh/backend/internal/application/cart"
	"go.uber.org/zap"
)

// CartService is the cart use-case surface the handler drives
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cartapp.CartResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, req cartapp.AddItemRequest) (*cartapp.CartResponse, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, req cartapp.UpdateItemRequest) (*cartapp.CartResponse, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartapp.CartResponse, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// CartHandler handles the caller's cart
type CartHandler struct {
	BaseHandler
	carts CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{BaseHandler: newBaseHandler(log), carts: carts}
}

// Get returns the caller's cart, empty when they have none
func (h *CartHandler) Get(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	resp, err := h.carts.GetCart(c.Request.Context(), actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem adds a product or raises its quantity
func (h *CartHandler) AddItem(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req cartapp.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.carts.AddItem(c.Request.Context(), actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItem sets a line's quantity
func (h *CartHandler) UpdateItem(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	productID, ok := h.UUIDParam(c, "productId")
	if !ok {
		return
	}
	var req cartapp.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.carts.UpdateItem(c.Request.Context(), actor.ID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem drops a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	productID, ok := h.UUIDParam(c, "productId")
	if !ok {
		return
	}
	resp, err := h.carts.RemoveItem(c.Request.Context(), actor.ID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	if err := h.carts.ClearCart(c.Request.Context(), actor.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
