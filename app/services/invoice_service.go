package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"BooksApp/app/logger"
	"BooksApp/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceService is the vendor-invoice ledger: the invoice headers plus
// their payment log, with the derived balance and status computations.
//
// The is_paid/payment_date columns are caches over the payment log. Every
// payment mutation, including deletion, recomputes them in the same
// transaction, so a reader never observes them out of step with
// sum(payments).
type InvoiceService struct {
	*BaseService
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService() *InvoiceService {
	return &InvoiceService{NewBaseService()}
}

// InvoiceInput carries the writable invoice fields. The vendor association
// may be by id, by name, or both; when both are present and disagree the
// name wins, for compatibility with pre-normalization data.
type InvoiceInput struct {
	InvoiceDate        string `validate:"required"`
	DueDate            string `validate:"required"`
	VendorID           *uint
	VendorName         string
	DeliveryNoteNumber string
	Amount             decimal.Decimal
	Notes              string
}

// PaymentInput carries one partial payment.
type PaymentInput struct {
	Amount decimal.Decimal
	Date   string
	Notes  string
}

// LedgerStats summarizes the active (non-archived) invoice ledger.
type LedgerStats struct {
	TotalInvoices  int64           `json:"total_invoices"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidInvoices   int64           `json:"paid_invoices"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	UnpaidInvoices int64           `json:"unpaid_invoices"`
	UnpaidAmount   decimal.Decimal `json:"unpaid_amount"`
}

// validateInvoiceInput applies the shared field checks.
func validateInvoiceInput(in *InvoiceInput) error {
	in.VendorName = strings.TrimSpace(in.VendorName)
	if err := validateInput(*in); err != nil {
		return err
	}
	if in.Amount.Sign() <= 0 {
		return validationErrorf("invoice amount must be greater than zero")
	}
	for _, d := range []string{in.InvoiceDate, in.DueDate} {
		if _, err := models.ParseDate(d); err != nil {
			return validationErrorf("invalid date %q, expected dd.mm.yyyy", d)
		}
	}
	return nil
}

// resolveVendor fills the missing half of the vendor association. The
// denormalized name is authoritative when both are supplied.
func resolveVendor(tx *gorm.DB, in *InvoiceInput) error {
	if in.VendorID == nil || in.VendorName != "" {
		return nil
	}
	var vendor models.Vendor
	if err := tx.First(&vendor, *in.VendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("vendor %d: %w", *in.VendorID, ErrNotFound)
		}
		return err
	}
	in.VendorName = vendor.Name
	return nil
}

// AddInvoice validates and inserts an invoice, returning the new id.
func (s *InvoiceService) AddInvoice(in InvoiceInput) (uint, error) {
	if err := validateInvoiceInput(&in); err != nil {
		return 0, err
	}

	var invoice models.Invoice
	err := s.WithTransaction(func(tx *gorm.DB) error {
		if err := resolveVendor(tx, &in); err != nil {
			return err
		}
		invoice = models.Invoice{
			InvoiceDate:        in.InvoiceDate,
			DueDate:            in.DueDate,
			VendorID:           in.VendorID,
			VendorName:         in.VendorName,
			DeliveryNoteNumber: in.DeliveryNoteNumber,
			Amount:             in.Amount,
			Notes:              in.Notes,
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return 0, err
	}
	return invoice.ID, nil
}

// UpdateInvoice replaces an invoice's writable fields and recomputes the
// paid cache, since a changed amount can change the settlement state.
func (s *InvoiceService) UpdateInvoice(id uint, in InvoiceInput) error {
	if err := validateInvoiceInput(&in); err != nil {
		return err
	}

	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := resolveVendor(tx, &in); err != nil {
			return err
		}
		res := tx.Model(&models.Invoice{}).Where("id = ?", id).Updates(map[string]any{
			"invoice_date":         in.InvoiceDate,
			"due_date":             in.DueDate,
			"vendor_id":            in.VendorID,
			"vendor_name":          in.VendorName,
			"delivery_note_number": in.DeliveryNoteNumber,
			"amount":               in.Amount,
			"notes":                in.Notes,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("invoice %d: %w", id, ErrNotFound)
		}
		return s.recomputePaidCache(tx, id)
	})
}

// GetInvoice returns one invoice with its computed balance fields attached.
func (s *InvoiceService) GetInvoice(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := s.attachComputed(&invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetAllInvoices returns invoices ordered by due date, newest first,
// with computed balance fields attached.
func (s *InvoiceService) GetAllInvoices(includeArchived bool) ([]models.Invoice, error) {
	q := s.db.Order("due_date DESC")
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}
	var invoices []models.Invoice
	if err := q.Find(&invoices).Error; err != nil {
		return nil, err
	}
	for i := range invoices {
		if err := s.attachComputed(&invoices[i]); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

// AddPayment records one partial payment and refreshes the paid cache in
// the same transaction. The ledger does not reject overpayment; callers
// are expected to consult GetRemaining first, and the derived status caps
// at Paid either way.
func (s *InvoiceService) AddPayment(invoiceID uint, in PaymentInput) (uint, error) {
	if in.Amount.Sign() <= 0 {
		return 0, validationErrorf("payment amount must be greater than zero")
	}
	if in.Date == "" {
		in.Date = models.Today()
	} else if _, err := models.ParseDate(in.Date); err != nil {
		return 0, validationErrorf("invalid payment date %q, expected dd.mm.yyyy", in.Date)
	}

	payment := models.Payment{
		InvoiceID:     invoiceID,
		PaymentAmount: in.Amount,
		PaymentDate:   in.Date,
		Notes:         in.Notes,
	}
	err := s.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Invoice{}, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
			}
			return err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return s.recomputePaidCache(tx, invoiceID)
	})
	if err != nil {
		return 0, err
	}
	return payment.ID, nil
}

// GetPayments returns an invoice's payments, oldest first.
func (s *InvoiceService) GetPayments(invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("invoice_id = ?", invoiceID).
		Order("payment_date, id").Find(&payments).Error
	return payments, err
}

// DeletePayment removes one payment and refreshes the owning invoice's
// paid cache in the same transaction.
func (s *InvoiceService) DeletePayment(paymentID uint) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("payment %d: %w", paymentID, ErrNotFound)
			}
			return err
		}
		if err := tx.Delete(&models.Payment{}, paymentID).Error; err != nil {
			return err
		}
		return s.recomputePaidCache(tx, payment.InvoiceID)
	})
}

// GetTotalPaid sums the payment log for one invoice.
func (s *InvoiceService) GetTotalPaid(invoiceID uint) (decimal.Decimal, error) {
	return s.totalPaid(s.db, invoiceID)
}

// GetRemaining returns amount minus the paid total. Negative when the
// invoice is overpaid.
func (s *InvoiceService) GetRemaining(invoiceID uint) (decimal.Decimal, error) {
	var invoice models.Invoice
	if err := s.db.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
		}
		return decimal.Zero, err
	}
	paid, err := s.totalPaid(s.db, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	return invoice.Amount.Sub(paid), nil
}

// GetPaymentStatus derives the three-state status from the payment log.
func (s *InvoiceService) GetPaymentStatus(invoiceID uint) (models.PaymentStatus, error) {
	var invoice models.Invoice
	if err := s.db.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
		}
		return "", err
	}
	paid, err := s.totalPaid(s.db, invoiceID)
	if err != nil {
		return "", err
	}
	return models.DeriveStatus(paid, invoice.Amount), nil
}

// MarkAsPaid settles an invoice on a single date, the legacy flow from
// before partial payments existed. The open remainder is recorded as one
// balancing payment so the payment log stays the source of truth.
func (s *InvoiceService) MarkAsPaid(invoiceID uint, paymentDate string) error {
	if paymentDate == "" {
		paymentDate = models.Today()
	} else if _, err := models.ParseDate(paymentDate); err != nil {
		return validationErrorf("invalid payment date %q, expected dd.mm.yyyy", paymentDate)
	}

	return s.WithTransaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
			}
			return err
		}
		paid, err := s.totalPaid(tx, invoiceID)
		if err != nil {
			return err
		}
		if remaining := invoice.Amount.Sub(paid); remaining.Sign() > 0 {
			payment := models.Payment{
				InvoiceID:     invoiceID,
				PaymentAmount: remaining,
				PaymentDate:   paymentDate,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		}
		return s.recomputePaidCache(tx, invoiceID)
	})
}

// MarkUnpaid deletes every payment for the invoice and resets the cache.
// This is a destructive convenience, not an undo.
func (s *InvoiceService) MarkUnpaid(invoiceID uint) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).
			Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return s.recomputePaidCache(tx, invoiceID)
	})
}

// ArchiveInvoice flags an invoice archived. The business rule that only
// fully paid invoices are archived is the caller's to enforce.
func (s *InvoiceService) ArchiveInvoice(invoiceID uint) error {
	res := s.db.Model(&models.Invoice{}).Where("id = ?", invoiceID).
		Update("is_archived", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
	}
	return nil
}

// DeleteInvoice removes an invoice and cascades its payments,
// all-or-nothing.
func (s *InvoiceService) DeleteInvoice(invoiceID uint) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).
			Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("failed to cascade payments: %w", err)
		}
		res := tx.Delete(&models.Invoice{}, invoiceID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
		}
		return nil
	})
}

// SearchInvoices matches active invoices by vendor name or delivery note
// number.
func (s *InvoiceService) SearchInvoices(term string) ([]models.Invoice, error) {
	pattern := "%" + term + "%"
	var invoices []models.Invoice
	err := s.db.
		Where("(vendor_name LIKE ? OR delivery_note_number LIKE ?) AND is_archived = ?",
			pattern, pattern, false).
		Order("due_date DESC").Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if err := s.attachComputed(&invoices[i]); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

// FilterInvoices returns active invoices by settlement state:
// "all", "paid", "unpaid" or "overdue" (unpaid and past due).
func (s *InvoiceService) FilterInvoices(kind string) ([]models.Invoice, error) {
	q := s.db.Where("is_archived = ?", false).Order("due_date DESC")
	switch kind {
	case "paid":
		q = q.Where("is_paid = ?", true)
	case "unpaid", "overdue":
		q = q.Where("is_paid = ?", false)
	case "", "all":
	default:
		return nil, validationErrorf("unknown invoice filter %q", kind)
	}

	var invoices []models.Invoice
	if err := q.Find(&invoices).Error; err != nil {
		return nil, err
	}

	if kind == "overdue" {
		log := logger.WithComponent("invoices")
		today, _ := models.ParseDate(models.Today())
		overdue := invoices[:0]
		for _, inv := range invoices {
			due, err := models.ParseDate(inv.DueDate)
			if err != nil {
				log.Warn().
					Uint("invoice_id", inv.ID).Str("due_date", inv.DueDate).
					Msg("unparseable due date, skipping in overdue filter")
				continue
			}
			if due.Before(today) {
				overdue = append(overdue, inv)
			}
		}
		invoices = overdue
	}

	for i := range invoices {
		if err := s.attachComputed(&invoices[i]); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

// GetDueWithin returns unpaid, unarchived invoices due within the next
// days, today included. This is the shape the notification boundary reads.
func (s *InvoiceService) GetDueWithin(days int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.Where("is_paid = ? AND is_archived = ?", false, false).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	today, _ := models.ParseDate(models.Today())
	var due []models.Invoice
	for _, inv := range invoices {
		d, err := models.ParseDate(inv.DueDate)
		if err != nil {
			continue
		}
		daysUntil := int(d.Sub(today).Hours() / 24)
		if daysUntil >= 0 && daysUntil <= days {
			if err := s.attachComputed(&inv); err != nil {
				return nil, err
			}
			due = append(due, inv)
		}
	}
	return due, nil
}

// GetStatistics summarizes the active ledger.
func (s *InvoiceService) GetStatistics() (*LedgerStats, error) {
	var invoices []models.Invoice
	if err := s.db.Where("is_archived = ?", false).Find(&invoices).Error; err != nil {
		return nil, err
	}

	stats := &LedgerStats{
		TotalAmount:  decimal.Zero,
		PaidAmount:   decimal.Zero,
		UnpaidAmount: decimal.Zero,
	}
	for _, inv := range invoices {
		stats.TotalInvoices++
		stats.TotalAmount = stats.TotalAmount.Add(inv.Amount)
		if inv.IsPaid {
			stats.PaidInvoices++
			stats.PaidAmount = stats.PaidAmount.Add(inv.Amount)
		} else {
			stats.UnpaidInvoices++
			stats.UnpaidAmount = stats.UnpaidAmount.Add(inv.Amount)
		}
	}
	return stats, nil
}

// totalPaid sums the payment log in Go with decimal arithmetic; SQL SUM
// over repeated partial payments is where float drift would creep in.
func (s *InvoiceService) totalPaid(tx *gorm.DB, invoiceID uint) (decimal.Decimal, error) {
	var payments []models.Payment
	if err := tx.Where("invoice_id = ?", invoiceID).Find(&payments).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.PaymentAmount)
	}
	return total, nil
}

// recomputePaidCache refreshes is_paid and the legacy payment_date column
// from the payment log. Must run inside the same transaction as the
// payment mutation that made them stale.
func (s *InvoiceService) recomputePaidCache(tx *gorm.DB, invoiceID uint) error {
	var invoice models.Invoice
	if err := tx.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
		}
		return err
	}
	paid, err := s.totalPaid(tx, invoiceID)
	if err != nil {
		return err
	}

	isPaid := paid.Cmp(invoice.Amount) >= 0
	updates := map[string]any{"is_paid": isPaid}
	if isPaid {
		updates["payment_date"] = latestPaymentDate(tx, invoiceID)
	} else {
		updates["payment_date"] = nil
	}
	return tx.Model(&models.Invoice{}).Where("id = ?", invoiceID).
		Updates(updates).Error
}

// latestPaymentDate returns the most recent payment date for an invoice,
// or nil when the log is empty.
func latestPaymentDate(tx *gorm.DB, invoiceID uint) *string {
	var payments []models.Payment
	if err := tx.Where("invoice_id = ?", invoiceID).Find(&payments).Error; err != nil {
		return nil
	}
	var latest *time.Time
	var latestStr string
	for _, p := range payments {
		d, err := models.ParseDate(p.PaymentDate)
		if err != nil {
			continue
		}
		if latest == nil || d.After(*latest) {
			t := d
			latest = &t
			latestStr = p.PaymentDate
		}
	}
	if latest == nil {
		return nil
	}
	return &latestStr
}

// attachComputed fills the read-only balance fields on an invoice record.
func (s *InvoiceService) attachComputed(invoice *models.Invoice) error {
	paid, err := s.totalPaid(s.db, invoice.ID)
	if err != nil {
		return err
	}
	invoice.TotalPaid = paid
	invoice.Remaining = invoice.Amount.Sub(paid)
	invoice.PaymentStatus = models.DeriveStatus(paid, invoice.Amount)
	return nil
}
