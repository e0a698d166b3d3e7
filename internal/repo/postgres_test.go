package repo

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/models"
)

func TestCart_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	gdb, err := db.Open(ctx, "postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))
	r := New(gdb)
	t.Cleanup(func() { _ = r.Close() })

	userID := "it-" + uuid.NewString()
	require.NoError(t, r.CreateCart(ctx, &models.Cart{UserID: userID}))
	require.ErrorIs(t, r.CreateCart(ctx, &models.Cart{UserID: userID}), ErrDuplicate)

	first, err := r.FindCartByUser(ctx, userID)
	require.NoError(t, err)
	stale, err := r.FindCartByUser(ctx, userID)
	require.NoError(t, err)

	first.AddQuantity("p1", 1)
	require.NoError(t, r.SaveCart(ctx, first))

	stale.AddQuantity("p2", 1)
	require.ErrorIs(t, r.SaveCart(ctx, stale), ErrVersionConflict)

	got, err := r.FindCartByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{{ProductID: "p1", Quantity: 1}}, got.Products)
}
