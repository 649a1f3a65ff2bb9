package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor represents a supplier the business receives invoices from.
// VendorCode is the human-facing sequential identifier (4-digit,
// zero-padded), distinct from the row id; stores created by old versions
// may have rows without one until the startup code repair runs.
type Vendor struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"not null" json:"name"`
	VendorCode         string    `gorm:"column:vendor_code" json:"vendor_code"`
	Address            string    `json:"address"`
	City               string    `json:"city"`
	PIB                string    `gorm:"column:pib" json:"pib"` // tax id
	RegistrationNumber string    `json:"registration_number"`
	BankAccount        string    `json:"bank_account"`
	ContactPerson      string    `json:"contact_person"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email"`
	Notes              string    `json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
}

// Customer represents a buyer proforma invoices are issued to.
type Customer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	CustomerCode string    `gorm:"column:customer_code" json:"customer_code"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	PIB          string    `gorm:"column:pib" json:"pib"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// Article represents a catalog item referenced by proforma line items.
type Article struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	ArticleCode string          `gorm:"column:article_code" json:"article_code"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"price"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}
