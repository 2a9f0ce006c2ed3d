package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/shared"
)

// SortField is a column orders can be listed by
type SortField string

const (
	SortByCreatedAt   SortField = "createdAt"
	SortByTotalAmount SortField = "totalAmount"
	SortByStatus      SortField = "status"
)

// IsValid checks if the sort field is supported
func (f SortField) IsValid() bool {
	switch f {
	case SortByCreatedAt, SortByTotalAmount, SortByStatus:
		return true
	}
	return false
}

// ListFilter narrows an order listing
type ListFilter struct {
	UserID    *uuid.UUID // nil lists every user's orders
	Status    Status     // empty means any
	StartDate *time.Time // orders created on or after
	SortBy    SortField
	SortOrder string // asc or desc
	Page      int
	Limit     int
}

// Normalize fills defaults and clamps paging
func (f ListFilter) Normalize() ListFilter {
	if !f.SortBy.IsValid() {
		f.SortBy = SortByCreatedAt
	}
	paging := shared.Filter{Page: f.Page, PageSize: f.Limit, OrderDir: f.SortOrder}.Normalize(100)
	f.Page, f.Limit, f.SortOrder = paging.Page, paging.PageSize, paging.OrderDir
	return f
}

// Repository defines the interface for order persistence
type Repository interface {
	// FindByNumber finds an order with its items and timeline
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByNumberForUpdate is FindByNumber with the order row locked until the transaction ends
	FindByNumberForUpdate(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll lists orders without timelines
	FindAll(ctx context.Context, filter ListFilter) ([]Order, int64, error)

	// CountByStatus counts orders per status, optionally for a single user
	CountByStatus(ctx context.Context, userID *uuid.UUID) (map[Status]int64, error)

	// LastOrderNumberForYear returns the greatest order number of year, or "" when there is none
	LastOrderNumberForYear(ctx context.Context, year int) (string, error)

	// Create inserts the order, its items and its timeline.
	// A duplicate order number yields a Conflict error with code ORDER_NUMBER_TAKEN.
	Create(ctx context.Context, order *Order) error

	// Update saves status fields with an optimistic version check and appends new timeline entries
	Update(ctx context.Context, order *Order) error
}
