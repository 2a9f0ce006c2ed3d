package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/pantryfresh/backend/internal/application/catalog"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService is the catalog use-case surface the handler drives
type ProductService interface {
	List(ctx context.Context, query catalogapp.PageQuery) (shared.Paginated[catalogapp.ProductResponse], error)
	GetByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*catalogapp.ProductResponse, error)
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	Restock(ctx context.Context, id uuid.UUID, req catalogapp.RestockRequest) (*catalogapp.RestockResponse, error)
	Movements(ctx context.Context, id uuid.UUID, query catalogapp.PageQuery) (shared.Paginated[catalogapp.StockMovementResponse], error)
}

// ProductHandler serves the public catalog and the admin stock endpoints
type ProductHandler struct {
	BaseHandler
	products ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{BaseHandler: newBaseHandler(log), products: products}
}

// List returns active products
func (h *ProductHandler) List(c *gin.Context) {
	var query catalogapp.PageQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page, err := h.products.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Get returns one active product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.products.GetByID(c.Request.Context(), id, false)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create adds a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Restock adds units to a product and journals the movement
func (h *ProductHandler) Restock(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.RestockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.products.Restock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Movements lists a product's stock journal, newest first
func (h *ProductHandler) Movements(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var query catalogapp.PageQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page, err := h.products.Movements(c.Request.Context(), id, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}
