package models

import "github.com/shopspring/decimal"

// PaymentStatus is the derived settlement state of an obligation.
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "Unpaid"
	StatusPartial PaymentStatus = "Partial"
	StatusPaid    PaymentStatus = "Paid"
	// StatusOverpaid ("Pretplata") is a valid terminal state, not an error.
	// Only utility bills use it; invoice and proforma statuses cap at Paid.
	StatusOverpaid PaymentStatus = "Overpaid"
)

// DeriveStatus computes the three-state status used by invoices and
// proforma invoices: Unpaid when nothing is paid, Paid once the paid total
// reaches the amount, Partial in between. Overpayment caps at Paid.
func DeriveStatus(paid, amount decimal.Decimal) PaymentStatus {
	switch {
	case paid.Sign() == 0:
		return StatusUnpaid
	case paid.Cmp(amount) >= 0:
		return StatusPaid
	default:
		return StatusPartial
	}
}

// DeriveUtilityStatus computes the four-state status used by utility bills,
// where paying more than the billed amount is a supported state.
func DeriveUtilityStatus(paid, amount decimal.Decimal) PaymentStatus {
	switch {
	case paid.Sign() == 0:
		return StatusUnpaid
	case paid.Cmp(amount) == 0:
		return StatusPaid
	case paid.Cmp(amount) > 0:
		return StatusOverpaid
	default:
		return StatusPartial
	}
}
