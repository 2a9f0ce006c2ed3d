package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/inventory"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/infrastructure/persistence/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByProduct lists movements for a product, newest first by default
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, int64, error) {
	filter = filter.Normalize(shared.MaxPageSize)
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.StockMovementModel{}).
		Where("product_id = ?", productID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movementModels []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order(movementSort.orderBy(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&movementModels).Error; err != nil {
		return nil, 0, err
	}

	return lo.Map(movementModels, func(m models.StockMovementModel, _ int) inventory.StockMovement {
		return m.ToDomain()
	}), total, nil
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
