package db

import (
	"fmt"
	"os"
	"path/filepath"

	"orderdesk/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Database wraps the SQLite connection with an explicit lifecycle: opened once
// at startup, closed at shutdown. No package-level handle.
type Database struct {
	gorm *gorm.DB
	path string
}

// Open connects to the SQLite file at path, creating the parent directory if
// needed. Foreign-key enforcement is switched on through the DSN so it applies
// to every pooled connection.
func Open(path string) (*Database, error) {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := path + "?_foreign_keys=on"
	g, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to database %s: %w", path, err)
	}

	return &Database{gorm: g, path: path}, nil
}

// Migrate creates the four tables if absent. Each table is independently
// idempotent; a failure here is fatal for the caller.
func (d *Database) Migrate() error {
	if err := d.gorm.AutoMigrate(
		&models.Customer{}, &models.Product{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Gorm exposes the underlying handle for the repository layer.
func (d *Database) Gorm() *gorm.DB {
	return d.gorm
}

func (d *Database) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
