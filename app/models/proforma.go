package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProformaInvoice is a customer-facing pre-invoice with line items.
//
// Two payment-tracking mechanisms coexist: the ProformaPayment log and the
// per-item IsPaid flags. The payment log is authoritative for PaidAmount
// and PaymentStatus; the item flags are an independent line-level report
// and never feed the cached fields.
type ProformaInvoice struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	ProformaNumber   string            `gorm:"unique;not null" json:"proforma_number"` // PR-NNNNN
	InvoiceDate      string            `gorm:"not null" json:"invoice_date"`
	CustomerID       *uint             `json:"customer_id,omitempty"`
	Customer         *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CustomerName     string            `json:"customer_name"`
	TotalAmount      decimal.Decimal   `gorm:"type:decimal(14,2);default:0" json:"total_amount"`
	PaidAmount       decimal.Decimal   `gorm:"type:decimal(14,2);default:0" json:"paid_amount"`
	PaymentStatus    PaymentStatus     `gorm:"default:Unpaid" json:"payment_status"`
	Notes            string            `json:"notes"`
	IsArchived       bool              `gorm:"default:false" json:"is_archived"`
	Items            []ProformaItem    `gorm:"foreignKey:ProformaID" json:"items,omitempty"`
	ProformaPayments []ProformaPayment `gorm:"foreignKey:ProformaID" json:"proforma_payments,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// ProformaItem is one line of a proforma invoice. Total is
// quantity x price x (1 - discount/100), fixed at write time.
// Replacing a proforma's items always deletes and reinserts the full set.
type ProformaItem struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	ProformaID  uint             `gorm:"not null;index" json:"proforma_id"`
	Proforma    *ProformaInvoice `gorm:"foreignKey:ProformaID" json:"-"`
	ArticleID   *uint            `json:"article_id,omitempty"`
	ArticleName string           `json:"article_name"`
	ArticleCode string           `json:"article_code"`
	Quantity    decimal.Decimal  `gorm:"type:decimal(14,3);default:0" json:"quantity"`
	Unit        string           `json:"unit"`
	Price       decimal.Decimal  `gorm:"type:decimal(14,2);default:0" json:"price"`
	Discount    decimal.Decimal  `gorm:"type:decimal(5,2);default:0" json:"discount"` // percentage
	Total       decimal.Decimal  `gorm:"type:decimal(14,2);default:0" json:"total"`
	IsPaid      bool             `gorm:"default:false" json:"is_paid"`
}

// ProformaPayment is one cash-basis payment against the proforma total.
type ProformaPayment struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	ProformaID    uint             `gorm:"not null;index" json:"proforma_id"`
	Proforma      *ProformaInvoice `gorm:"foreignKey:ProformaID" json:"-"`
	PaymentAmount decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"payment_amount"`
	PaymentDate   string           `json:"payment_date"`
	Notes         string           `json:"notes"`
	CreatedAt     time.Time        `json:"created_at"`
}
