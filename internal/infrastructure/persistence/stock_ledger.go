package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pantryfresh/backend/internal/domain/inventory"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockLedger implements inventory.StockLedger with guarded UPDATE statements
// on products.stock and appends one stock_movements row per adjusted product.
// It is meant to run on a transaction handle; outside a transaction a failed
// Reduce leaves earlier adjustments applied.
type GormStockLedger struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStockLedger creates a new GormStockLedger
func NewGormStockLedger(db *gorm.DB, now func() time.Time) *GormStockLedger {
	if now == nil {
		now = time.Now
	}
	return &GormStockLedger{db: db, now: now}
}

// Reduce takes stock for every adjustment in product ID order.
// The UPDATE only matches while stock covers the quantity, so stock never
// goes negative; a miss is reported as InsufficientStock or NotFound.
func (l *GormStockLedger) Reduce(ctx context.Context, adjustments []inventory.StockAdjustment, ref inventory.MovementReference) error {
	merged, err := inventory.MergeAdjustments(adjustments)
	if err != nil {
		return err
	}

	db := l.db.WithContext(ctx)
	now := l.now()
	for _, adj := range merged {
		result := db.Model(&models.ProductModel{}).
			Where("id = ? AND stock >= ?", adj.ProductID, adj.Quantity).
			Updates(map[string]any{
				"stock":      gorm.Expr("stock - ?", adj.Quantity),
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("reduce stock for product %s: %w", adj.ProductID, result.Error)
		}
		if result.RowsAffected == 0 {
			return l.shortfall(db, adj)
		}

		stockAfter, err := l.currentStock(db, adj)
		if err != nil {
			return err
		}
		if err := l.record(db, inventory.NewStockMovement(adj.ProductID, -adj.Quantity, ref, stockAfter, now)); err != nil {
			return err
		}
	}
	return nil
}

// Restore gives stock back unconditionally and reports the resulting counts
func (l *GormStockLedger) Restore(ctx context.Context, adjustments []inventory.StockAdjustment, ref inventory.MovementReference) ([]inventory.RestoredStock, error) {
	merged, err := inventory.MergeAdjustments(adjustments)
	if err != nil {
		return nil, err
	}

	db := l.db.WithContext(ctx)
	now := l.now()
	restored := make([]inventory.RestoredStock, 0, len(merged))
	for _, adj := range merged {
		result := db.Model(&models.ProductModel{}).
			Where("id = ?", adj.ProductID).
			Updates(map[string]any{
				"stock":      gorm.Expr("stock + ?", adj.Quantity),
				"updated_at": now,
			})
		if result.Error != nil {
			return nil, fmt.Errorf("restore stock for product %s: %w", adj.ProductID, result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, shared.NewNotFoundError("Product").WithDetail("product_id", adj.ProductID.String())
		}

		var row struct {
			Name  string
			Stock int
		}
		if err := db.Model(&models.ProductModel{}).
			Select("name", "stock").
			Where("id = ?", adj.ProductID).
			Take(&row).Error; err != nil {
			return nil, fmt.Errorf("read stock for product %s: %w", adj.ProductID, err)
		}
		if err := l.record(db, inventory.NewStockMovement(adj.ProductID, adj.Quantity, ref, row.Stock, now)); err != nil {
			return nil, err
		}

		restored = append(restored, inventory.RestoredStock{
			ProductID:        adj.ProductID,
			ProductName:      row.Name,
			QuantityRestored: adj.Quantity,
			StockAfter:       row.Stock,
		})
	}
	return restored, nil
}

// shortfall explains why a guarded reduce matched no row
func (l *GormStockLedger) shortfall(db *gorm.DB, adj inventory.StockAdjustment) error {
	var model models.ProductModel
	if err := db.Select("id", "name", "stock").First(&model, "id = ?", adj.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError("Product").WithDetail("product_id", adj.ProductID.String())
		}
		return fmt.Errorf("read stock for product %s: %w", adj.ProductID, err)
	}
	return shared.NewInsufficientStockError(adj.ProductID.String(), model.Name, model.Stock, adj.Quantity)
}

func (l *GormStockLedger) currentStock(db *gorm.DB, adj inventory.StockAdjustment) (int, error) {
	var stock int
	if err := db.Model(&models.ProductModel{}).
		Select("stock").
		Where("id = ?", adj.ProductID).
		Scan(&stock).Error; err != nil {
		return 0, fmt.Errorf("read stock for product %s: %w", adj.ProductID, err)
	}
	return stock, nil
}

func (l *GormStockLedger) record(db *gorm.DB, movement inventory.StockMovement) error {
	if err := db.Create(models.StockMovementModelFromDomain(movement)).Error; err != nil {
		return fmt.Errorf("record stock movement: %w", err)
	}
	return nil
}

// Ensure GormStockLedger implements StockLedger
var _ inventory.StockLedger = (*GormStockLedger)(nil)
