package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/cart"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewGormCartRepository creates a new GormCartRepository.
// ttl is how far Clear pushes the expiry out; non-positive means cart.DefaultTTL.
func NewGormCartRepository(db *gorm.DB, ttl time.Duration, now func() time.Time) *GormCartRepository {
	if ttl <= 0 {
		ttl = cart.DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &GormCartRepository{db: db, ttl: ttl, now: now}
}

// FindByUserID returns the user's cart with its lines in insertion order
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return r.findByUserID(r.db.WithContext(ctx), userID)
}

// FindByUserIDForUpdate locks the cart row before its lines are read
func (r *GormCartRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return r.findByUserID(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *GormCartRepository) findByUserID(query *gorm.DB, userID uuid.UUID) (*cart.Cart, error) {
	var model models.CartModel
	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err, "Cart")
	}
	return model.ToDomain(), nil
}

// Save upserts the cart row and replaces its lines.
// A second cart for the same user is reported as a Conflict.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	model := models.CartModelFromDomain(c)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Save(model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewConflictError("CART_EXISTS", "A cart already exists for this user")
		}
		return fmt.Errorf("save cart: %w", err)
	}
	if err := db.Where("cart_id = ?", c.ID).Delete(&models.CartItemModel{}).Error; err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	if len(model.Items) == 0 {
		return nil
	}
	if err := db.Create(&model.Items).Error; err != nil {
		return fmt.Errorf("insert cart items: %w", err)
	}
	return nil
}

// Clear deletes every line of the cart, zeroes its total and refreshes its expiry
func (r *GormCartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	now := r.now()
	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartItemModel{}).Error; err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	result := db.Model(&models.CartModel{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"total_amount": decimal.Zero,
			"updated_at":   now,
			"expires_at":   now.Add(r.ttl),
		})
	if result.Error != nil {
		return fmt.Errorf("clear cart: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Cart")
	}
	return nil
}

// Ensure GormCartRepository implements cart.Repository
var _ cart.Repository = (*GormCartRepository)(nil)
