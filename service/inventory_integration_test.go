//go:build integration
// +build integration

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penzolll/umi-kelontong-digital-siap/model"
	"github.com/penzolll/umi-kelontong-digital-siap/service"
)

func TestAdjustStock(t *testing.T) {
	db := setupTestDB(t)
	inventory := &service.Inventory{DB: db}
	ctx := context.Background()
	admin := createUser(t, db, "Admin", "admin@example.com", model.RoleAdmin)

	t.Run("add", func(t *testing.T) {
		p := createProduct(t, db, "Garam 500g", 3000, 7)

		updated, err := inventory.AdjustStock(ctx, service.AdjustStockInput{
			ProductID: p.ID, Quantity: 5, Type: service.AdjustAdd, ActorID: &admin.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 12, updated.Stock)
		assert.Equal(t, 12, reloadProduct(t, db, p.ID).Stock)

		rows := ledgerRows(t, db, p.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, model.TxManualAdd, rows[0].TransactionType)
		assert.Equal(t, 5, rows[0].Quantity)
		assert.Equal(t, "Manual inventory update", rows[0].Notes)
		require.NotNil(t, rows[0].CreatedBy)
		assert.Equal(t, admin.ID, *rows[0].CreatedBy)
	})

	t.Run("remove", func(t *testing.T) {
		p := createProduct(t, db, "Tepung Terigu", 8000, 10)

		updated, err := inventory.AdjustStock(ctx, service.AdjustStockInput{
			ProductID: p.ID, Quantity: 4, Type: service.AdjustRemove, Notes: "damaged goods",
		})
		require.NoError(t, err)
		assert.Equal(t, 6, updated.Stock)

		rows := ledgerRows(t, db, p.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, model.TxManualRemove, rows[0].TransactionType)
		assert.Equal(t, 4, rows[0].Quantity)
		assert.Equal(t, "damaged goods", rows[0].Notes)
	})

	t.Run("remove past zero is rejected", func(t *testing.T) {
		p := createProduct(t, db, "Santan Bubuk", 4000, 3)

		_, err := inventory.AdjustStock(ctx, service.AdjustStockInput{
			ProductID: p.ID, Quantity: 5, Type: service.AdjustRemove,
		})
		var insufficient *service.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 3, insufficient.Available)

		assert.Equal(t, 3, reloadProduct(t, db, p.ID).Stock)
		assert.Empty(t, ledgerRows(t, db, p.ID))
	})

	t.Run("set above current stock", func(t *testing.T) {
		p := createProduct(t, db, "Kerupuk Udang", 6000, 7)

		updated, err := inventory.AdjustStock(ctx, service.AdjustStockInput{
			ProductID: p.ID, Quantity: 12, Type: service.AdjustSet,
		})
		require.NoError(t, err)
		assert.Equal(t, 12, updated.Stock)

		rows := ledgerRows(t, db, p.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, model.TxManualAdd, rows[0].TransactionType)
		assert.Equal(t, 5, rows[0].Quantity)
	})

	t.Run("set below current stock", func(t *testing.T) {
		p := createProduct(t, db, "Bawang Merah", 25000, 12)

		updated, err := inventory.AdjustStock(ctx, service.AdjustStockInput{
			ProductID: p.ID, Quantity: 3, Type: service.AdjustSet,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.Stock)

		rows := ledgerRows(t, db, p.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, model.TxManualRemove, rows[0].TransactionType)
		assert.Equal(t, 9, rows[0].Quantity)
	})

	t.Run("set to zero empties the shelf", func(t *testing.T) {
		p := createProduct(t, db, "Cabai Rawit", 30000, 4)

		updated, err := inventory.AdjustStock(ctx, service.AdjustStockInput{
			ProductID: p.ID, Quantity: 0, Type: service.AdjustSet,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, updated.Stock)

		rows := ledgerRows(t, db, p.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, model.TxManualRemove, rows[0].TransactionType)
		assert.Equal(t, 4, rows[0].Quantity)
	})

	t.Run("set equal to current stock writes no ledger row", func(t *testing.T) {
		p := createProduct(t, db, "Gula Merah", 15000, 7)

		updated, err := inventory.AdjustStock(ctx, service.AdjustStockInput{
			ProductID: p.ID, Quantity: 7, Type: service.AdjustSet,
		})
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Stock)
		assert.Empty(t, ledgerRows(t, db, p.ID))
	})

	t.Run("invalid input", func(t *testing.T) {
		p := createProduct(t, db, "Terasi", 2000, 5)

		_, err := inventory.AdjustStock(ctx, service.AdjustStockInput{
			ProductID: p.ID, Quantity: 1, Type: "increment",
		})
		var ve *service.ValidationError
		require.ErrorAs(t, err, &ve)

		_, err = inventory.AdjustStock(ctx, service.AdjustStockInput{
			ProductID: p.ID, Quantity: -1, Type: service.AdjustSet,
		})
		require.ErrorAs(t, err, &ve)

		_, err = inventory.AdjustStock(ctx, service.AdjustStockInput{
			ProductID: 999999, Quantity: 1, Type: service.AdjustAdd,
		})
		var nf *service.NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("ledger reconciles after a mixed sequence", func(t *testing.T) {
		p := createProduct(t, db, "Kacang Tanah", 18000, 10)

		steps := []service.AdjustStockInput{
			{ProductID: p.ID, Quantity: 5, Type: service.AdjustAdd},
			{ProductID: p.ID, Quantity: 2, Type: service.AdjustRemove},
			{ProductID: p.ID, Quantity: 20, Type: service.AdjustSet},
			{ProductID: p.ID, Quantity: 6, Type: service.AdjustSet},
		}
		for _, step := range steps {
			_, err := inventory.AdjustStock(ctx, step)
			require.NoError(t, err)
		}

		final := reloadProduct(t, db, p.ID)
		assert.Equal(t, 6, final.Stock)
		assert.Equal(t, final.Stock-10, ledgerBalance(t, db, p.ID))
	})
}

func TestLowStock(t *testing.T) {
	db := setupTestDB(t)
	inventory := &service.Inventory{DB: db}
	ctx := context.Background()

	category := model.Category{Name: "Sembako"}
	require.NoError(t, db.Create(&category).Error)

	low := model.Product{Name: "Hampir Habis", Price: 1000, Stock: 3, CategoryID: &category.ID}
	require.NoError(t, db.Create(&low).Error)
	createProduct(t, db, "Di Ambang", 1000, 10)
	createProduct(t, db, "Melimpah", 1000, 25)

	t.Run("default threshold", func(t *testing.T) {
		products, err := inventory.LowStock(ctx, 0)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Hampir Habis", products[0].Name)
		assert.Equal(t, "Sembako", products[0].CategoryName)
		assert.Equal(t, "Di Ambang", products[1].Name)
	})

	t.Run("explicit threshold", func(t *testing.T) {
		products, err := inventory.LowStock(ctx, 30)
		require.NoError(t, err)
		assert.Len(t, products, 3)

		products, err = inventory.LowStock(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestHistory(t *testing.T) {
	db := setupTestDB(t)
	inventory := &service.Inventory{DB: db}
	ctx := context.Background()

	admin := createUser(t, db, "Ibu Umi", "umi@example.com", model.RoleAdmin)
	p := createProduct(t, db, "Kue Kering", 22000, 5)

	_, err := inventory.AdjustStock(ctx, service.AdjustStockInput{
		ProductID: p.ID, Quantity: 10, Type: service.AdjustAdd, ActorID: &admin.ID,
	})
	require.NoError(t, err)
	_, err = inventory.AdjustStock(ctx, service.AdjustStockInput{
		ProductID: p.ID, Quantity: 2, Type: service.AdjustRemove, ActorID: &admin.ID,
	})
	require.NoError(t, err)

	product, entries, err := inventory.History(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, product.Stock)

	// Most recent first, with the actor's display name joined in.
	require.Len(t, entries, 2)
	assert.Equal(t, model.TxManualRemove, entries[0].TransactionType)
	assert.Equal(t, model.TxManualAdd, entries[1].TransactionType)
	for _, e := range entries {
		assert.Equal(t, "Ibu Umi", e.CreatedByName)
	}

	_, _, err = inventory.History(ctx, 999999)
	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
}
