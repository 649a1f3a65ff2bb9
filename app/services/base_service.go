package services

import (
	"fmt"

	"BooksApp/app/database"

	"gorm.io/gorm"
)

// BaseService provides the shared store handle and transaction discipline
// for all ledger and store services. Every multi-statement logical
// operation goes through WithTransaction so a partial failure rolls back.
type BaseService struct {
	db *gorm.DB
}

// NewBaseService creates a base service bound to the shared store.
func NewBaseService() *BaseService {
	return &BaseService{db: database.GetDB()}
}

// NewBaseServiceWithDB creates a base service bound to an explicit handle,
// used by tests and maintenance tooling.
func NewBaseServiceWithDB(db *gorm.DB) *BaseService {
	return &BaseService{db: db}
}

// GetDB returns the store handle.
func (b *BaseService) GetDB() *gorm.DB {
	return b.db
}

// EnsureDB returns an error if the store is not initialized.
func (b *BaseService) EnsureDB() error {
	if b.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return nil
}

// WithTransaction executes fn inside a store transaction.
func (b *BaseService) WithTransaction(fn func(tx *gorm.DB) error) error {
	if err := b.EnsureDB(); err != nil {
		return err
	}
	return b.db.Transaction(fn)
}
