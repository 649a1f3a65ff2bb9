package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"BooksApp/app/config"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	dbPath string
)

// GetDB returns the shared store handle.
func GetDB() *gorm.DB {
	return db
}

// Initialize opens the local store, creating the file and its directory on
// first run, and brings the schema up to date. Safe to call on every start
// regardless of which historical schema version is on disk.
func Initialize(cfg *config.AppConfig) error {
	gdb, err := openStore(cfg.DatabasePath)
	if err != nil {
		return err
	}

	db = gdb
	dbPath = cfg.DatabasePath

	if err := RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// openStore opens a SQLite store with the CGO-free driver.
func openStore(path string) (*gorm.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return gdb, nil
}

// Close closes the store connection.
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction executes a function within a store transaction.
func Transaction(fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return db.Transaction(fn)
}
