package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents a vendor invoice. VendorName is denormalized and
// authoritative for historical data created before vendors were normalized
// into their own table; VendorID may be nil on such rows.
//
// IsPaid and PaymentDate are caches over the payment log. Every payment
// mutation recomputes them inside the same transaction, so they never
// drift from sum(payments) >= amount.
type Invoice struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	InvoiceDate        string          `gorm:"not null" json:"invoice_date"`
	DueDate            string          `gorm:"not null" json:"due_date"`
	VendorID           *uint           `json:"vendor_id,omitempty"`
	Vendor             *Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	VendorName         string          `json:"vendor_name"`
	DeliveryNoteNumber string          `json:"delivery_note_number"`
	Amount             decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	IsPaid             bool            `gorm:"default:false" json:"is_paid"`
	PaymentDate        *string         `json:"payment_date,omitempty"` // legacy single-date field
	Notes              string          `json:"notes"`
	IsArchived         bool            `gorm:"default:false" json:"is_archived"`
	Payments           []Payment       `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`

	// Computed on read, never stored.
	TotalPaid     decimal.Decimal `gorm:"-" json:"total_paid"`
	Remaining     decimal.Decimal `gorm:"-" json:"remaining"`
	PaymentStatus PaymentStatus   `gorm:"-" json:"payment_status"`
}

// Payment is one partial payment against an invoice. Payments are owned
// exclusively by their invoice; deleting the invoice deletes them.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	InvoiceID     uint            `gorm:"not null;index" json:"invoice_id"`
	Invoice       *Invoice        `gorm:"foreignKey:InvoiceID" json:"-"`
	PaymentAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"payment_amount"`
	PaymentDate   string          `json:"payment_date"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}
