package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueEntry records daily register revenue ("pazar") split across four
// channels, for a period that is usually a single day. Amount redundantly
// stores the channel sum as supplied by the caller; the ledger does not
// derive it. At most one entry may exist per DateFrom value, enforced at
// write time rather than by a schema constraint.
type RevenueEntry struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	EntryDate     string          `gorm:"not null" json:"entry_date"`
	DateFrom      string          `gorm:"not null;index" json:"date_from"`
	DateTo        string          `json:"date_to"`
	Cash          decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"cash"`
	Card          decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"card"`
	Wire          decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"wire"`
	Checks        decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"checks"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"amount"`
	PaymentStatus PaymentStatus   `gorm:"default:Unpaid" json:"payment_status"` // Unpaid or Paid
	PaymentDate   *string         `json:"payment_date,omitempty"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ChannelSum returns cash+card+wire+checks.
func (e *RevenueEntry) ChannelSum() decimal.Decimal {
	return decimal.Sum(e.Cash, e.Card, e.Wire, e.Checks)
}
