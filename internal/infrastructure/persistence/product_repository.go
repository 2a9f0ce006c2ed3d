package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/catalog"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/infrastructure/persistence/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Product")
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the products with the given IDs; missing IDs are skipped
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	return r.findByIDs(r.db.WithContext(ctx), ids)
}

// FindByIDsForUpdate locks the product rows in ID order until the transaction ends
func (r *GormProductRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	return r.findByIDs(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), ids)
}

func (r *GormProductRepository) findByIDs(query *gorm.DB, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var productModels []models.ProductModel
	if err := query.Where("id IN ?", lo.Uniq(ids)).Order("id ASC").Find(&productModels).Error; err != nil {
		return nil, err
	}
	return lo.Map(productModels, func(m models.ProductModel, _ int) catalog.Product {
		return *m.ToDomain()
	}), nil
}

// FindAll lists products, optionally only the active ones
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter, activeOnly bool) ([]catalog.Product, int64, error) {
	filter = filter.Normalize(shared.MaxPageSize)
	scope := func(db *gorm.DB) *gorm.DB {
		if activeOnly {
			return db.Where("is_active = ?", true)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var productModels []models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order(productSort.orderBy(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&productModels).Error; err != nil {
		return nil, 0, err
	}

	return lo.Map(productModels, func(m models.ProductModel, _ int) catalog.Product {
		return *m.ToDomain()
	}), total, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
