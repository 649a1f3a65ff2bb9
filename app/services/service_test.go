package services

import (
	"path/filepath"
	"testing"

	"BooksApp/app/database"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway store with the full schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.RunMigrations(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func newTestInvoiceService(t *testing.T) *InvoiceService {
	return &InvoiceService{NewBaseServiceWithDB(newTestDB(t))}
}

func newTestProformaService(t *testing.T) *ProformaService {
	base := NewBaseServiceWithDB(newTestDB(t))
	return &ProformaService{base, &SequenceService{base}}
}

func newTestUtilityService(t *testing.T) *UtilityService {
	return &UtilityService{NewBaseServiceWithDB(newTestDB(t))}
}

func newTestRevenueService(t *testing.T) *RevenueService {
	return &RevenueService{NewBaseServiceWithDB(newTestDB(t))}
}

func newTestSettingsService(t *testing.T) *SettingsService {
	return &SettingsService{NewBaseServiceWithDB(newTestDB(t))}
}

func newTestVendorService(t *testing.T) *VendorService {
	base := NewBaseServiceWithDB(newTestDB(t))
	return &VendorService{base, &SequenceService{base}}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("got %s, want %s", got, want)
	}
}
