package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/catalog"
	"github.com/pantryfresh/backend/internal/domain/inventory"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/domain/shared/valueobject"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// ProductService handles catalog reads, product creation and restocking
type ProductService struct {
	txScope        TransactionScope
	productRepo    catalog.ProductRepository
	movementRepo   inventory.StockMovementRepository
	money          *valueobject.MoneyFormatter
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewProductService creates a new ProductService
func NewProductService(
	txScope TransactionScope,
	productRepo catalog.ProductRepository,
	movementRepo inventory.StockMovementRepository,
	money *valueobject.MoneyFormatter,
	logger *zap.Logger,
) *ProductService {
	if money == nil {
		money = valueobject.NewMoneyFormatter(valueobject.DefaultCurrency, language.English)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		txScope:      txScope,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		money:        money,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for product events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns active products, by name unless sortBy says otherwise
func (s *ProductService) List(ctx context.Context, query PageQuery) (shared.Paginated[ProductResponse], error) {
	filter := query.toFilter("name")
	products, total, err := s.productRepo.FindAll(ctx, filter, true)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	items := lo.Map(products, func(p catalog.Product, _ int) ProductResponse {
		return ToProductResponse(&p, s.money)
	})
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetByID returns a product. Inactive products are hidden unless includeInactive is set.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive && !includeInactive {
		return nil, shared.NewNotFoundError("Product")
	}
	response := ToProductResponse(product, s.money)
	return &response, nil
}

// Create adds a product with its opening stock
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	now := s.now()
	product, err := catalog.NewProduct(req.Name, req.Unit, req.Price, req.Stock, now)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		product.SetDescription(req.Description, now)
	}
	if req.SalePrice != nil {
		if err := product.SetSalePrice(req.SalePrice, now); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, product)
	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
		zap.Int("stock", product.Stock),
	)

	response := ToProductResponse(product, s.money)
	return &response, nil
}

// Restock adds units through the stock ledger, which journals a RESTOCK movement
func (s *ProductService) Restock(ctx context.Context, id uuid.UUID, req RestockRequest) (*RestockResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Restock quantity must be positive")
	}

	var restored inventory.RestoredStock
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Products().FindByID(ctx, id); err != nil {
			return err
		}
		result, err := repos.Ledger().Restore(ctx, []inventory.StockAdjustment{{ProductID: id, Quantity: req.Quantity}},
			inventory.MovementReference{Reason: inventory.MovementReasonRestock, Reference: req.Note})
		if err != nil {
			return err
		}
		restored = result[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product restocked",
		zap.String("product_id", id.String()),
		zap.Int("quantity", req.Quantity),
		zap.Int("stock_after", restored.StockAfter),
	)

	return &RestockResponse{
		ProductID:     restored.ProductID,
		ProductName:   restored.ProductName,
		QuantityAdded: restored.QuantityRestored,
		StockAfter:    restored.StockAfter,
	}, nil
}

// Movements lists the stock journal of a product, newest first
func (s *ProductService) Movements(ctx context.Context, id uuid.UUID, query PageQuery) (shared.Paginated[StockMovementResponse], error) {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return shared.Paginated[StockMovementResponse]{}, err
	}
	filter := query.toFilter("created_at")
	movements, total, err := s.movementRepo.FindByProduct(ctx, id, filter)
	if err != nil {
		return shared.Paginated[StockMovementResponse]{}, err
	}
	return shared.NewPaginated(lo.Map(movements, func(m inventory.StockMovement, _ int) StockMovementResponse {
		return toStockMovementResponse(m)
	}), total, filter.Page, filter.PageSize), nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	events := product.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
}
