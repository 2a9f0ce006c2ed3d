package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/infrastructure/persistence/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByNumber finds an order with its items and timeline
func (r *GormOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	return r.findByNumber(r.db.WithContext(ctx), orderNumber)
}

// FindByNumberForUpdate locks the order row until the transaction ends
func (r *GormOrderRepository) FindByNumberForUpdate(ctx context.Context, orderNumber string) (*order.Order, error) {
	return r.findByNumber(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), orderNumber)
}

func (r *GormOrderRepository) findByNumber(query *gorm.DB, orderNumber string) (*order.Order, error) {
	var model models.OrderModel
	if err := query.
		Preload("Items", byPosition).
		Preload("Timeline", byPosition).
		Where("order_number = ?", orderNumber).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err, "Order")
	}
	return model.ToDomain(), nil
}

// FindAll lists orders with their items; timelines are not loaded
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	filter = filter.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Scopes(orderListScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(orderListScope(filter)).
		Preload("Items", byPosition).
		Order(orderSort.orderBy(string(filter.SortBy), filter.SortOrder)).
		Order("order_number DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	return lo.Map(orderModels, func(m models.OrderModel, _ int) order.Order {
		return *m.ToDomain()
	}), total, nil
}

// byPosition keeps order lines and timeline entries in the sequence they were written
func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// orderListScope applies the listing filters without ordering or paging
func orderListScope(filter order.ListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.UserID != nil {
			db = db.Where("user_id = ?", *filter.UserID)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		if filter.StartDate != nil {
			db = db.Where("created_at >= ?", *filter.StartDate)
		}
		return db
	}
}

// CountByStatus counts orders per status, optionally for a single user
func (r *GormOrderRepository) CountByStatus(ctx context.Context, userID *uuid.UUID) (map[order.Status]int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var rows []struct {
		Status order.Status
		Count  int64
	}
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[order.Status]int64, len(order.AllStatuses()))
	for _, s := range order.AllStatuses() {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// LastOrderNumberForYear returns the greatest order number of year, or "" when there is none.
// Numbers are fixed width, so the lexicographic maximum is the numeric maximum.
func (r *GormOrderRepository) LastOrderNumberForYear(ctx context.Context, year int) (string, error) {
	var numbers []string
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("order_number LIKE ?", order.YearPrefix(year)+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error; err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

// Create inserts the order, its items and its timeline
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewConflictError("ORDER_NUMBER_TAKEN", fmt.Sprintf("Order number %s is already taken", o.OrderNumber)).
				WithDetail("order_number", o.OrderNumber)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	if len(model.Items) > 0 {
		if err := db.Create(&model.Items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
	}
	if len(model.Timeline) > 0 {
		if err := db.Create(&model.Timeline).Error; err != nil {
			return fmt.Errorf("insert order timeline: %w", err)
		}
	}
	return nil
}

// Update saves the mutable order fields when the stored version still matches,
// bumps the version and appends timeline entries not yet stored.
// Items and totals are never written after creation.
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	db := r.db.WithContext(ctx)

	currentVersion := o.Version
	result := db.Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", o.ID, currentVersion).
		Updates(map[string]any{
			"status":              model.Status,
			"admin_notes":         model.AdminNotes,
			"cancellation_reason": model.CancellationReason,
			"cancelled_at":        model.CancelledAt,
			"delivered_at":        model.DeliveredAt,
			"version":             currentVersion + 1,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.OrderModel{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("check order existence: %w", err)
		}
		if count == 0 {
			return shared.NewNotFoundError("Order")
		}
		return shared.NewConflictError("ORDER_MODIFIED", "Order was modified by another request")
	}

	if len(model.Timeline) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Timeline).Error; err != nil {
			return fmt.Errorf("append order timeline: %w", err)
		}
	}

	o.BumpVersion()
	return nil
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
