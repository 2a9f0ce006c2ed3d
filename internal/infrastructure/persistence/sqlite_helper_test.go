package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/catalog"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared/valueobject"
	"github.com/pantryfresh/backend/internal/infrastructure/persistence/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var sqliteNow = time.Date(2026, time.February, 10, 8, 0, 0, 0, time.UTC)

// setupSQLiteDB opens an in-memory database with the storefront schema.
// A single connection keeps every query on the same in-memory database.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.ProductModel{},
		&models.StockMovementModel{},
		&models.CartModel{},
		&models.CartItemModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.OrderTimelineModel{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "pcs", decimal.NewFromInt(price), stock, sqliteNow)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func productStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var model models.ProductModel
	require.NoError(t, db.First(&model, "id = ?", id).Error)
	return model.Stock
}

func testAddress(t *testing.T) valueobject.Address {
	t.Helper()
	addr, err := valueobject.NewAddress(valueobject.AddressParams{
		FullName: "Meera Iyer",
		Phone:    "9123456780",
		Line1:    "4 Lake View",
		City:     "Chennai",
		State:    "Tamil Nadu",
		Pincode:  "600001",
	})
	require.NoError(t, err)
	return addr
}

// newTestOrder builds a pending order for userID with one line per product
func newTestOrder(t *testing.T, number string, userID uuid.UUID, createdAt time.Time, products ...*catalog.Product) *order.Order {
	t.Helper()
	items := lo.Map(products, func(p *catalog.Product, _ int) order.OrderItem {
		item, err := order.NewOrderItem(p.ID, p.Name, p.Unit, 1, p.Price)
		require.NoError(t, err)
		return item
	})
	totals, err := order.DefaultPricingPolicy().Quote(lo.Map(items, func(item order.OrderItem, _ int) order.LineAmount {
		return order.LineAmount{Quantity: item.Quantity, Price: item.Price}
	}), "600001", decimal.Zero)
	require.NoError(t, err)

	o, err := order.NewOrder(order.NewOrderParams{
		OrderNumber:   number,
		UserID:        userID,
		Items:         items,
		Totals:        totals,
		Address:       testAddress(t),
		PaymentMethod: order.PaymentMethodUPI,
	}, createdAt)
	require.NoError(t, err)
	o.PullEvents()
	return o
}
