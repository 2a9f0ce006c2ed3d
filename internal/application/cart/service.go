package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/cart"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Service manages the single active cart of each user
type Service struct {
	txScope TransactionScope
	carts   cart.Repository
	ttl     time.Duration
	money   *valueobject.MoneyFormatter
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new cart Service. A non-positive ttl falls back to cart.DefaultTTL.
func NewService(txScope TransactionScope, carts cart.Repository, ttl time.Duration, money *valueobject.MoneyFormatter, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = cart.DefaultTTL
	}
	if money == nil {
		money = valueobject.NewMoneyFormatter(valueobject.DefaultCurrency, language.English)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		txScope: txScope,
		carts:   carts,
		ttl:     ttl,
		money:   money,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetCart returns the user's cart, or an empty view when none exists
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		if shared.IsKind(err, shared.KindNotFound) {
			response := toCartResponse(nil, s.money)
			return &response, nil
		}
		return nil, err
	}
	response := toCartResponse(c, s.money)
	return &response, nil
}

// AddItem adds quantity units of a product at its current effective price.
// The merged line may not exceed the product's stock.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	var updated *cart.Cart
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		now := s.now()

		product, err := repos.Products().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if !product.IsAvailable() {
			return shared.NewInsufficientStockError(product.ID.String(), product.Name, 0, req.Quantity)
		}

		c, err := s.loadOrCreate(ctx, repos.Carts(), userID, now)
		if err != nil {
			return err
		}
		item, err := c.AddItem(cart.ProductSnapshot{
			ID:    product.ID,
			Name:  product.Name,
			Unit:  product.Unit,
			Price: product.EffectivePrice(),
		}, req.Quantity, now)
		if err != nil {
			return err
		}
		if item.Quantity > product.Stock {
			return shared.NewInsufficientStockError(product.ID.String(), product.Name, product.Stock, item.Quantity)
		}

		if err := repos.Carts().Save(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Cart item added",
		zap.String("user_id", userID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("quantity", req.Quantity),
	)
	response := toCartResponse(updated, s.money)
	return &response, nil
}

// UpdateItem sets the quantity of an existing line
func (s *Service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	var updated *cart.Cart
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		now := s.now()

		c, err := s.load(ctx, repos.Carts(), userID)
		if err != nil {
			return err
		}
		if _, ok := c.Item(productID); !ok {
			return shared.NewNotFoundError("Cart item")
		}

		product, err := repos.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if !product.CanFulfil(req.Quantity) {
			available := product.Stock
			if !product.IsActive {
				available = 0
			}
			return shared.NewInsufficientStockError(product.ID.String(), product.Name, available, req.Quantity)
		}

		if _, err := c.UpdateItemQuantity(productID, req.Quantity, now); err != nil {
			return err
		}
		if err := repos.Carts().Save(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	response := toCartResponse(updated, s.money)
	return &response, nil
}

// RemoveItem deletes a line from the cart
func (s *Service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	var updated *cart.Cart
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := s.load(ctx, repos.Carts(), userID)
		if err != nil {
			return err
		}
		if err := c.RemoveItem(productID, s.now()); err != nil {
			return err
		}
		if err := repos.Carts().Save(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	response := toCartResponse(updated, s.money)
	return &response, nil
}

// ClearCart removes every line. Clearing a missing cart is a no-op.
func (s *Service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := repos.Carts().FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			if shared.IsKind(err, shared.KindNotFound) {
				return nil
			}
			return err
		}
		return repos.Carts().Clear(ctx, c.ID)
	})
}

// load returns the locked cart; a missing cart has no items to change
func (s *Service) load(ctx context.Context, carts cart.Repository, userID uuid.UUID) (*cart.Cart, error) {
	c, err := carts.FindByUserIDForUpdate(ctx, userID)
	if err != nil {
		if shared.IsKind(err, shared.KindNotFound) {
			return nil, shared.NewNotFoundError("Cart item")
		}
		return nil, err
	}
	return c.WithTTL(s.ttl), nil
}

func (s *Service) loadOrCreate(ctx context.Context, carts cart.Repository, userID uuid.UUID, now time.Time) (*cart.Cart, error) {
	c, err := carts.FindByUserIDForUpdate(ctx, userID)
	if err == nil {
		return c.WithTTL(s.ttl), nil
	}
	if !shared.IsKind(err, shared.KindNotFound) {
		return nil, err
	}
	c, err = cart.NewCart(userID, now)
	if err != nil {
		return nil, err
	}
	return c.WithTTL(s.ttl), nil
}
