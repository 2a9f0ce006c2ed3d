package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/cart"
	"github.com/pantryfresh/backend/internal/domain/catalog"
	"github.com/pantryfresh/backend/internal/domain/inventory"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/domain/shared/valueobject"
	"github.com/pantryfresh/backend/internal/infrastructure/telemetry"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// DefaultMaxNumberAttempts bounds checkout retries after an order number clash
const DefaultMaxNumberAttempts = 5

// ServiceConfig tunes pricing and checkout behaviour
type ServiceConfig struct {
	Pricing           order.PricingPolicy
	MaxNumberAttempts int
	Location          *time.Location // calendar used for the order number year
	Money             *valueobject.MoneyFormatter
}

// DefaultServiceConfig returns the storefront defaults
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Pricing:           order.DefaultPricingPolicy(),
		MaxNumberAttempts: DefaultMaxNumberAttempts,
		Location:          time.UTC,
		Money:             valueobject.NewMoneyFormatter(valueobject.DefaultCurrency, language.English),
	}
}

// Service drives order placement and the order lifecycle
type Service struct {
	txScope        TransactionScope
	orders         order.Repository
	numbers        *NumberGenerator
	pricing        order.PricingPolicy
	maxAttempts    int
	money          *valueobject.MoneyFormatter
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewService creates a new order Service.
// orders serves reads outside a transaction; writes go through txScope.
func NewService(txScope TransactionScope, orders order.Repository, cfg ServiceConfig, logger *zap.Logger) *Service {
	if cfg.MaxNumberAttempts <= 0 {
		cfg.MaxNumberAttempts = DefaultMaxNumberAttempts
	}
	if cfg.Money == nil {
		cfg.Money = valueobject.NewMoneyFormatter(valueobject.DefaultCurrency, language.English)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		txScope:     txScope,
		orders:      orders,
		numbers:     NewNumberGenerator(cfg.Location),
		pricing:     cfg.Pricing,
		maxAttempts: cfg.MaxNumberAttempts,
		money:       cfg.Money,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the publisher that receives order events after commit
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// WithClock replaces the time source
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateOrder checks out the user's cart.
// Cart read, stock check, order insert, stock reduction and cart clear share one
// transaction. A clash on the order number reruns the whole transaction.
func (s *Service) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (_ *CreateOrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create")
	defer func() { telemetry.EndSpan(span, err) }()

	address, err := valueobject.NewAddress(req.DeliveryAddress.params())
	if err != nil {
		return nil, err
	}
	paymentMethod := order.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod)))
	if !paymentMethod.IsValid() {
		return nil, shared.NewValidationError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unsupported payment method: %s", req.PaymentMethod))
	}

	checkout := checkoutInput{
		userID:        userID,
		address:       address,
		deliverySlot:  req.DeliverySlot,
		paymentMethod: paymentMethod,
		notes:         req.OrderNotes,
	}

	var placed *order.Order
	for attempt := 1; ; attempt++ {
		placed, err = s.placeOrder(ctx, checkout)
		if err == nil {
			break
		}
		if !isOrderNumberTaken(err) || attempt >= s.maxAttempts {
			return nil, err
		}
		s.logger.Warn("Order number taken, retrying checkout",
			zap.String("user_id", userID.String()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	s.publish(ctx, placed)
	s.logger.Info("Order placed",
		zap.String("order_number", placed.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.Int("items", placed.ItemCount()),
		zap.String("total", placed.Totals.TotalAmount.StringFixed(2)),
	)

	return &CreateOrderResponse{
		OrderNumber: placed.OrderNumber,
		ItemsCount:  placed.ItemCount(),
		TotalAmount: placed.Totals.TotalAmount,
		Status:      placed.Status.String(),
		StatusLabel: placed.Status.Label(),
		Totals:      toTotalsResponse(placed.Totals, s.money),
		CreatedAt:   placed.CreatedAt,
	}, nil
}

type checkoutInput struct {
	userID        uuid.UUID
	address       valueobject.Address
	deliverySlot  string
	paymentMethod order.PaymentMethod
	notes         string
}

func (s *Service) placeOrder(ctx context.Context, in checkoutInput) (*order.Order, error) {
	var placed *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		now := s.now()

		c, err := repos.Carts().FindByUserIDForUpdate(ctx, in.userID)
		if err != nil {
			if shared.IsKind(err, shared.KindNotFound) {
				return shared.ErrEmptyCart
			}
			return err
		}
		if c.IsEmpty() {
			return shared.ErrEmptyCart
		}

		products, err := repos.Products().FindByIDsForUpdate(ctx, c.ProductIDs())
		if err != nil {
			return err
		}
		items, err := orderItemsFromCart(c, products)
		if err != nil {
			return err
		}

		totals, err := s.pricing.Quote(lo.Map(items, func(item order.OrderItem, _ int) order.LineAmount {
			return order.LineAmount{Quantity: item.Quantity, Price: item.Price}
		}), in.address.Pincode(), decimal.Zero)
		if err != nil {
			return err
		}

		number, err := s.numbers.Next(ctx, repos.Orders(), now)
		if err != nil {
			return err
		}

		o, err := order.NewOrder(order.NewOrderParams{
			OrderNumber:   number,
			UserID:        in.userID,
			Items:         items,
			Totals:        totals,
			Address:       in.address,
			DeliverySlot:  in.deliverySlot,
			PaymentMethod: in.paymentMethod,
			OrderNotes:    in.notes,
		}, now)
		if err != nil {
			return err
		}

		if err := repos.Orders().Create(ctx, o); err != nil {
			return err
		}
		if err := repos.Ledger().Reduce(ctx, o.StockAdjustments(), inventory.MovementReference{
			Reason:    inventory.MovementReasonOrderPlaced,
			Reference: o.OrderNumber,
		}); err != nil {
			return err
		}
		if err := repos.Carts().Clear(ctx, c.ID); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// orderItemsFromCart checks live stock for every cart line and snapshots it.
// Prices come from the cart; the unit comes from the live product.
func orderItemsFromCart(c *cart.Cart, products []catalog.Product) ([]order.OrderItem, error) {
	byID := lo.KeyBy(products, func(p catalog.Product) uuid.UUID { return p.ID })

	items := make([]order.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, shared.NewInsufficientStockError(line.ProductID.String(), line.ProductName, 0, line.Quantity)
		}
		if !product.CanFulfil(line.Quantity) {
			available := product.Stock
			if !product.IsActive {
				available = 0
			}
			return nil, shared.NewInsufficientStockError(product.ID.String(), product.Name, available, line.Quantity)
		}

		item, err := order.NewOrderItem(product.ID, line.ProductName, product.Unit, line.Quantity, line.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func isOrderNumberTaken(err error) bool {
	var de *shared.DomainError
	return errors.As(err, &de) && de.Code == "ORDER_NUMBER_TAKEN"
}

// UpdateStatus applies an admin status change. Entering CANCELLED restores stock
// in the same transaction as the status write.
func (s *Service) UpdateStatus(ctx context.Context, actor order.Actor, orderNumber string, req UpdateStatusRequest) (_ *StatusChangeResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update_status",
		attribute.String("order.number", orderNumber),
		attribute.String("order.target_status", req.Status),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if !actor.IsAdmin() {
		return nil, shared.NewDomainError(shared.KindForbidden, "FORBIDDEN", "Only administrators can change order status")
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var (
		updated  *order.Order
		previous order.Status
		restored []inventory.RestoredStock
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		now := s.now()

		o, err := repos.Orders().FindByNumberForUpdate(ctx, orderNumber)
		if err != nil {
			return err
		}

		note := req.Note
		if note == "" && req.AdminNotes != nil {
			note = *req.AdminNotes
		}
		previous, err = o.TransitionTo(target, actor, note, now)
		if err != nil {
			return err
		}
		if req.AdminNotes != nil {
			if err := o.SetAdminNotes(*req.AdminNotes, now); err != nil {
				return err
			}
		}

		if target == order.StatusCancelled {
			restored, err = repos.Ledger().Restore(ctx, o.StockAdjustments(), inventory.MovementReference{
				Reason:    inventory.MovementReasonOrderCancelled,
				Reference: o.OrderNumber,
			})
			if err != nil {
				return err
			}
		}

		if err := repos.Orders().Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated)
	s.logger.Info("Order status updated",
		zap.String("order_number", orderNumber),
		zap.String("previous_status", previous.String()),
		zap.String("new_status", target.String()),
		zap.String("actor_id", actor.ID.String()),
	)

	return &StatusChangeResponse{
		OrderNumber:    orderNumber,
		PreviousStatus: previous.String(),
		NewStatus:      updated.Status.String(),
		StockRestored:  restored,
	}, nil
}

// CancelOrder cancels the user's own order and gives its stock back.
// Orders of other users are reported as not found.
func (s *Service) CancelOrder(ctx context.Context, userID uuid.UUID, orderNumber string, req CancelOrderRequest) (_ *CancelOrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "cancel", attribute.String("order.number", orderNumber))
	defer func() { telemetry.EndSpan(span, err) }()

	actor := order.Actor{ID: userID, Role: order.ActorRoleCustomer}

	var (
		cancelled *order.Order
		previous  order.Status
		restored  []inventory.RestoredStock
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		now := s.now()

		o, err := repos.Orders().FindByNumberForUpdate(ctx, orderNumber)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(userID) {
			return shared.NewNotFoundError("Order")
		}

		previous = o.Status
		if err := o.Cancel(req.Reason, actor, now); err != nil {
			return err
		}

		restored, err = repos.Ledger().Restore(ctx, o.StockAdjustments(), inventory.MovementReference{
			Reason:    inventory.MovementReasonOrderCancelled,
			Reference: o.OrderNumber,
		})
		if err != nil {
			return err
		}

		if err := repos.Orders().Update(ctx, o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, cancelled)
	s.logger.Info("Order cancelled by customer",
		zap.String("order_number", orderNumber),
		zap.String("user_id", userID.String()),
		zap.Int("products_restored", len(restored)),
	)

	return &CancelOrderResponse{
		CancellationInfo: CancellationInfo{
			OrderNumber:    cancelled.OrderNumber,
			PreviousStatus: previous.String(),
			Status:         cancelled.Status.String(),
			Reason:         cancelled.CancellationReason,
			CancelledAt:    lo.FromPtr(cancelled.CancelledAt),
		},
		StockRestored: restored,
	}, nil
}

// GetOrder returns an order's detail. Customers only see their own orders;
// anything else is reported as not found.
func (s *Service) GetOrder(ctx context.Context, actor order.Actor, orderNumber string) (*OrderResponse, error) {
	o, err := s.orders.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !o.IsOwnedBy(actor.ID) {
		return nil, shared.NewNotFoundError("Order")
	}
	response := toOrderResponse(o, s.money)
	return &response, nil
}

// ListOrders lists the user's own orders
func (s *Service) ListOrders(ctx context.Context, userID uuid.UUID, query ListOrdersQuery) (shared.Paginated[OrderListItemResponse], error) {
	query.UserID = ""
	filter, err := query.toFilter()
	if err != nil {
		return shared.Paginated[OrderListItemResponse]{}, err
	}
	filter.UserID = &userID
	return s.list(ctx, filter)
}

// ListAllOrders lists orders across users, optionally narrowed to one user (admin only)
func (s *Service) ListAllOrders(ctx context.Context, actor order.Actor, query ListOrdersQuery) (shared.Paginated[OrderListItemResponse], error) {
	if !actor.IsAdmin() {
		return shared.Paginated[OrderListItemResponse]{}, shared.NewDomainError(shared.KindForbidden, "FORBIDDEN", "Only administrators can list all orders")
	}
	filter, err := query.toFilter()
	if err != nil {
		return shared.Paginated[OrderListItemResponse]{}, err
	}
	return s.list(ctx, filter)
}

func (s *Service) list(ctx context.Context, filter order.ListFilter) (shared.Paginated[OrderListItemResponse], error) {
	orders, total, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[OrderListItemResponse]{}, err
	}
	items := lo.Map(orders, func(o order.Order, _ int) OrderListItemResponse {
		return toOrderListItemResponse(o, s.money)
	})
	return shared.NewPaginated(items, total, filter.Page, filter.Limit), nil
}

// Summary counts the user's orders per status
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*OrderSummaryResponse, error) {
	counts, err := s.orders.CountByStatus(ctx, &userID)
	if err != nil {
		return nil, err
	}

	response := &OrderSummaryResponse{Counts: make(map[string]int64, len(counts))}
	for status, n := range counts {
		response.Counts[status.String()] = n
		response.Total += n
		if !status.IsTerminal() {
			response.Active += n
		}
	}
	return response, nil
}

// publish hands the aggregate's pending events to the publisher.
// Publishing happens after commit, so a failure is logged and not returned.
func (s *Service) publish(ctx context.Context, o *order.Order) {
	events := o.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish order events",
			zap.String("order_number", o.OrderNumber),
			zap.Error(err),
		)
	}
}
