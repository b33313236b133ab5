package store

import (
	"path/filepath"
	"testing"

	"orderdesk/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a fresh SQLite file with foreign keys enforced, matching
// the production DSN.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	g, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, g.AutoMigrate(
		&models.Customer{}, &models.Product{},
		&models.Order{}, &models.OrderItem{},
	))
	t.Cleanup(func() {
		if sqlDB, err := g.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return g
}

func seedCustomer(t *testing.T, g *gorm.DB, name string) *models.Customer {
	t.Helper()
	customer, err := NewCustomerStore(g).Create(models.CustomerInput{Name: name})
	require.NoError(t, err)
	return customer
}

func seedProduct(t *testing.T, g *gorm.DB, name string, price float64) *models.Product {
	t.Helper()
	product, err := NewProductStore(g).Create(models.ProductInput{Name: name, Price: price})
	require.NoError(t, err)
	return product
}

func seedOrder(t *testing.T, g *gorm.DB, customerID uint, date string, items ...models.OrderItemInput) uint {
	t.Helper()
	id, err := NewOrderStore(g).Create(models.OrderInput{
		CustomerID: customerID,
		Date:       date,
		Items:      items,
	})
	require.NoError(t, err)
	return id
}
