package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UtilityType is a reference entity for bill categories (power, water, ...).
type UtilityType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// UtilityBill tracks one utility bill. Unlike invoices there is no payment
// log: PaidAmount is a single cumulative figure and may exceed Amount, in
// which case the bill is Overpaid rather than in error.
type UtilityBill struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	BillDate        string          `gorm:"not null" json:"bill_date"` // billing period
	EntryDate       string          `json:"entry_date"`
	UtilityTypeID   *uint           `json:"utility_type_id,omitempty"`
	UtilityType     *UtilityType    `gorm:"foreignKey:UtilityTypeID" json:"utility_type,omitempty"`
	UtilityTypeName string          `json:"utility_type_name"`
	Amount          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"paid_amount"`
	PaymentStatus   PaymentStatus   `gorm:"default:Unpaid" json:"payment_status"`
	PaymentDate     *string         `json:"payment_date,omitempty"`
	IsArchived      bool            `gorm:"default:false" json:"is_archived"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}
