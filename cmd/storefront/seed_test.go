package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/repo"
)

func TestLoadProducts(t *testing.T) {
	t.Parallel()

	products, err := loadProducts(strings.NewReader(`[
		{"id": "lamp-1", "name": "Lamp", "description": "desk lamp", "price": 100, "count": 5},
		{"name": "Mug", "description": "ceramic mug", "price": 49.5}
	]`))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "lamp-1", products[0].ID)
	assert.InDelta(t, 49.5, products[1].Price, 0)

	_, err = loadProducts(strings.NewReader(`[{"price": 1}]`))
	require.Error(t, err)

	_, err = loadProducts(strings.NewReader(`{"name": "not an array"}`))
	require.Error(t, err)
}

func TestSeedProducts(t *testing.T) {
	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(gdb))
	store := repo.New(gdb)
	t.Cleanup(func() { _ = store.Close() })

	products, err := loadProducts(strings.NewReader(`[
		{"id": "lamp-1", "name": "Lamp", "description": "desk lamp", "price": 100},
		{"name": "Mug", "description": "ceramic mug", "price": 50}
	]`))
	require.NoError(t, err)

	n, err := seedProducts(ctx, store, products)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NotEmpty(t, products[1].ID)

	found, err := store.FindProducts(ctx, []string{"lamp-1", products[1].ID})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "Mug", found[products[1].ID].Name)
}
