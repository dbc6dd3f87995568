//go:build integration
// +build integration

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/penzolll/umi-kelontong-digital-siap/model"
)

// setupTestDB starts a disposable PostgreSQL container and returns a
// migrated gorm handle.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:alpine",
		tcpostgres.WithDatabase("umistore_test"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(connStr), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryTransaction{},
	))

	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) model.Product {
	t.Helper()
	p := model.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) model.User {
	t.Helper()
	u := model.User{Name: name, Email: email, Password: "x", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) model.Product {
	t.Helper()
	var p model.Product
	require.NoError(t, db.First(&p, id).Error)
	return p
}

func ledgerRows(t *testing.T, db *gorm.DB, productID uint) []model.InventoryTransaction {
	t.Helper()
	var rows []model.InventoryTransaction
	require.NoError(t, db.Where("product_id = ?", productID).Order("id").Find(&rows).Error)
	return rows
}

// ledgerBalance is the signed sum of a product's ledger. For a product
// created directly with initial stock S, stock must equal S + balance
// at all times.
func ledgerBalance(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	total := 0
	for _, row := range ledgerRows(t, db, productID) {
		total += model.TransactionSign(row.TransactionType) * row.Quantity
	}
	return total
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}
