package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/cart"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCartRepository(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	clearedAt := sqliteNow.Add(3 * time.Hour)
	repo := NewGormCartRepository(db, 48*time.Hour, func() time.Time { return clearedAt })
	milk := seedProduct(t, db, "Milk", 30, 20)
	curd := seedProduct(t, db, "Curd", 40, 20)
	userID := uuid.New()

	c, err := cart.NewCart(userID, sqliteNow)
	require.NoError(t, err)
	_, err = c.AddItem(cart.ProductSnapshot{ID: milk.ID, Name: milk.Name, Unit: milk.Unit, Price: milk.Price}, 2, sqliteNow)
	require.NoError(t, err)
	_, err = c.AddItem(cart.ProductSnapshot{ID: curd.ID, Name: curd.Name, Unit: curd.Unit, Price: curd.Price}, 1, sqliteNow.Add(1))
	require.NoError(t, err)

	t.Run("saves and loads lines in insertion order", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)
		require.Len(t, found.Items, 2)
		assert.Equal(t, milk.ID, found.Items[0].ProductID)
		assert.Equal(t, 2, found.Items[0].Quantity)
		assert.True(t, decimal.NewFromInt(100).Equal(found.TotalAmount))
	})

	t.Run("save replaces removed lines", func(t *testing.T) {
		found, err := repo.FindByUserIDForUpdate(ctx, userID)
		require.NoError(t, err)
		require.NoError(t, found.RemoveItem(milk.ID, sqliteNow))
		require.NoError(t, repo.Save(ctx, found))

		reloaded, err := repo.FindByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, reloaded.Items, 1)
		assert.Equal(t, curd.ID, reloaded.Items[0].ProductID)
		assert.True(t, decimal.NewFromInt(40).Equal(reloaded.TotalAmount))
	})

	t.Run("second cart for the same user is a conflict", func(t *testing.T) {
		other, err := cart.NewCart(userID, sqliteNow)
		require.NoError(t, err)
		err = repo.Save(ctx, other)
		assert.True(t, shared.IsKind(err, shared.KindConflict))
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx, c.ID))

		found, err := repo.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.True(t, found.IsEmpty())
		assert.True(t, found.TotalAmount.IsZero())
		assert.WithinDuration(t, clearedAt, found.UpdatedAt, time.Second)
		assert.WithinDuration(t, clearedAt.Add(48*time.Hour), found.ExpiresAt, time.Second)
	})

	t.Run("missing carts are not found", func(t *testing.T) {
		_, err := repo.FindByUserID(ctx, uuid.New())
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
		assert.True(t, shared.IsKind(repo.Clear(ctx, uuid.New()), shared.KindNotFound))
	})
}
