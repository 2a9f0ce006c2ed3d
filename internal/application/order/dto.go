package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/inventory"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/domain/shared/valueobject"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ==================== Requests ====================

// AddressInput is the delivery address submitted at checkout
type AddressInput struct {
	FullName string `json:"fullName" binding:"required,min=1,max=100"`
	Phone    string `json:"phone" binding:"required,len=10,numeric"`
	Line1    string `json:"line1" binding:"required,min=1,max=200"`
	Line2    string `json:"line2" binding:"max=200"`
	City     string `json:"city" binding:"required,min=1,max=100"`
	State    string `json:"state" binding:"required,min=1,max=100"`
	Pincode  string `json:"pincode" binding:"required,pincode"`
}

func (a AddressInput) params() valueobject.AddressParams {
	return valueobject.AddressParams{
		FullName: a.FullName,
		Phone:    a.Phone,
		Line1:    a.Line1,
		Line2:    a.Line2,
		City:     a.City,
		State:    a.State,
		Pincode:  a.Pincode,
	}
}

// CreateOrderRequest checks out the caller's cart
type CreateOrderRequest struct {
	DeliveryAddress AddressInput `json:"deliveryAddress" binding:"required"`
	DeliverySlot    string       `json:"deliverySlot" binding:"max=50"`
	PaymentMethod   string       `json:"paymentMethod" binding:"required,payment_method"`
	OrderNotes      string       `json:"orderNotes" binding:"max=500"`
}

// UpdateStatusRequest moves an order through the lifecycle (admin only)
type UpdateStatusRequest struct {
	Status     string  `json:"status" binding:"required,order_status"`
	AdminNotes *string `json:"adminNotes" binding:"omitempty,max=1000"`
	Note       string  `json:"note" binding:"max=500"`
}

// CancelOrderRequest cancels the caller's own order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ListOrdersQuery filters an order listing
type ListOrdersQuery struct {
	Page      int        `form:"page" binding:"omitempty,min=1"`
	Limit     int        `form:"limit" binding:"omitempty,min=1,max=100"`
	Status    string     `form:"status" binding:"omitempty,order_status"`
	SortBy    string     `form:"sortBy" binding:"omitempty,oneof=createdAt totalAmount status"`
	SortOrder string     `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	UserID    string     `form:"userId" binding:"omitempty,uuid"`
}

func (q ListOrdersQuery) toFilter() (order.ListFilter, error) {
	filter := order.ListFilter{
		StartDate: q.StartDate,
		SortBy:    order.SortField(q.SortBy),
		SortOrder: q.SortOrder,
		Page:      q.Page,
		Limit:     q.Limit,
	}
	if q.Status != "" {
		status, err := order.ParseStatus(q.Status)
		if err != nil {
			return order.ListFilter{}, err
		}
		filter.Status = status
	}
	if q.UserID != "" {
		userID, err := uuid.Parse(q.UserID)
		if err != nil {
			return order.ListFilter{}, shared.NewValidationError("INVALID_USER", "userId must be a UUID")
		}
		filter.UserID = &userID
	}
	return filter.Normalize(), nil
}

// ==================== Responses ====================

// TotalsResponse is the frozen money breakdown of an order
type TotalsResponse struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	Discount     decimal.Decimal `json:"discount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	TotalDisplay string          `json:"totalDisplay"`
	Currency     string          `json:"currency"`
}

// AddressResponse is the delivery address stored on an order
type AddressResponse struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// OrderItemResponse is one immutable order line
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// TimelineEntryResponse is one recorded status change
type TimelineEntryResponse struct {
	PreviousStatus string    `json:"previousStatus,omitempty"`
	NewStatus      string    `json:"newStatus"`
	Note           string    `json:"note,omitempty"`
	ActorRole      string    `json:"actorRole"`
	Timestamp      time.Time `json:"timestamp"`
}

// CreateOrderResponse confirms a checkout
type CreateOrderResponse struct {
	OrderNumber string          `json:"orderNumber"`
	ItemsCount  int             `json:"itemsCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	StatusLabel string          `json:"statusLabel"`
	Totals      TotalsResponse  `json:"totals"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// OrderResponse is the full order detail
type OrderResponse struct {
	ID                 uuid.UUID               `json:"id"`
	OrderNumber        string                  `json:"orderNumber"`
	UserID             uuid.UUID               `json:"userId"`
	Status             string                  `json:"status"`
	StatusLabel        string                  `json:"statusLabel"`
	CanCancel          bool                    `json:"canCancel"`
	AllowedTransitions []string                `json:"allowedTransitions"`
	ItemsCount         int                     `json:"itemsCount"`
	Items              []OrderItemResponse     `json:"items"`
	Totals             TotalsResponse          `json:"totals"`
	DeliveryAddress    AddressResponse         `json:"deliveryAddress"`
	DeliverySlot       string                  `json:"deliverySlot,omitempty"`
	PaymentMethod      string                  `json:"paymentMethod"`
	OrderNotes         string                  `json:"orderNotes,omitempty"`
	AdminNotes         string                  `json:"adminNotes,omitempty"`
	CancellationReason string                  `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time              `json:"cancelledAt,omitempty"`
	DeliveredAt        *time.Time              `json:"deliveredAt,omitempty"`
	Timeline           []TimelineEntryResponse `json:"timeline"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}

// OrderListItemResponse is an order row in a listing
type OrderListItemResponse struct {
	OrderNumber   string          `json:"orderNumber"`
	UserID        uuid.UUID       `json:"userId"`
	Status        string          `json:"status"`
	StatusLabel   string          `json:"statusLabel"`
	CanCancel     bool            `json:"canCancel"`
	ItemsCount    int             `json:"itemsCount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalDisplay  string          `json:"totalDisplay"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// StatusChangeResponse confirms an admin status update
type StatusChangeResponse struct {
	OrderNumber    string                    `json:"orderNumber"`
	PreviousStatus string                    `json:"previousStatus"`
	NewStatus      string                    `json:"newStatus"`
	StockRestored  []inventory.RestoredStock `json:"stockRestored,omitempty"`
}

// CancellationInfo describes a completed cancellation
type CancellationInfo struct {
	OrderNumber    string    `json:"orderNumber"`
	PreviousStatus string    `json:"previousStatus"`
	Status         string    `json:"status"`
	Reason         string    `json:"reason"`
	CancelledAt    time.Time `json:"cancelledAt"`
}

// CancelOrderResponse confirms a customer cancellation
type CancelOrderResponse struct {
	CancellationInfo CancellationInfo          `json:"cancellationInfo"`
	StockRestored    []inventory.RestoredStock `json:"stockRestored"`
}

// OrderSummaryResponse counts orders per status
type OrderSummaryResponse struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
	Active int64            `json:"active"`
}

// ==================== Mapping ====================

func toTotalsResponse(t order.Totals, money *valueobject.MoneyFormatter) TotalsResponse {
	return TotalsResponse{
		Subtotal:     t.Subtotal,
		DeliveryFee:  t.DeliveryFee,
		TaxAmount:    t.TaxAmount,
		Discount:     t.Discount,
		TotalAmount:  t.TotalAmount,
		TotalDisplay: money.Format(t.TotalAmount),
		Currency:     money.Currency().String(),
	}
}

func toOrderResponse(o *order.Order, money *valueobject.MoneyFormatter) OrderResponse {
	addr := o.Address.Params()
	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      o.Status.String(),
		StatusLabel: o.Status.Label(),
		CanCancel:   o.Status.CanCancel(),
		AllowedTransitions: lo.Map(o.Status.AllowedTransitions(), func(s order.Status, _ int) string {
			return s.String()
		}),
		ItemsCount: o.ItemCount(),
		Items: lo.Map(o.Items, func(item order.OrderItem, _ int) OrderItemResponse {
			return OrderItemResponse{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Unit:        item.Unit,
				Quantity:    item.Quantity,
				Price:       item.Price,
				Subtotal:    item.Subtotal,
			}
		}),
		Totals: toTotalsResponse(o.Totals, money),
		DeliveryAddress: AddressResponse{
			FullName: addr.FullName,
			Phone:    addr.Phone,
			Line1:    addr.Line1,
			Line2:    addr.Line2,
			City:     addr.City,
			State:    addr.State,
			Pincode:  addr.Pincode,
		},
		DeliverySlot:       o.DeliverySlot,
		PaymentMethod:      string(o.PaymentMethod),
		OrderNotes:         o.OrderNotes,
		AdminNotes:         o.AdminNotes,
		CancellationReason: o.CancellationReason,
		CancelledAt:        o.CancelledAt,
		DeliveredAt:        o.DeliveredAt,
		Timeline: lo.Map(o.Timeline, func(e order.TimelineEntry, _ int) TimelineEntryResponse {
			return TimelineEntryResponse{
				PreviousStatus: e.PreviousStatus.String(),
				NewStatus:      e.NewStatus.String(),
				Note:           e.Note,
				ActorRole:      string(e.ActorRole),
				Timestamp:      e.Timestamp,
			}
		}),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toOrderListItemResponse(o order.Order, money *valueobject.MoneyFormatter) OrderListItemResponse {
	return OrderListItemResponse{
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Status:        o.Status.String(),
		StatusLabel:   o.Status.Label(),
		CanCancel:     o.Status.CanCancel(),
		ItemsCount:    o.ItemCount(),
		TotalAmount:   o.Totals.TotalAmount,
		TotalDisplay:  money.Format(o.Totals.TotalAmount),
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
	}
}
