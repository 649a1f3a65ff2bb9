package services

import (
	"errors"
	"fmt"
	"strings"

	"BooksApp/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProformaService is the proforma-invoice ledger: headers, line items and
// the cash-basis payment log.
//
// Two payment-tracking mechanisms live on the same entity. The payment log
// is authoritative: paid_amount and payment_status are always recomputed
// from proforma_payments. The per-item is_paid flags are an orthogonal
// line-level report (ItemPaymentBreakdown) and never feed the cached
// fields.
type ProformaService struct {
	*BaseService
	sequences *SequenceService
}

// NewProformaService creates a new proforma service.
func NewProformaService() *ProformaService {
	return &ProformaService{NewBaseService(), NewSequenceService()}
}

// ProformaInput carries the writable header fields.
type ProformaInput struct {
	InvoiceDate  string `validate:"required"`
	CustomerID   *uint
	CustomerName string
	Notes        string
}

// ProformaItemInput carries one line item. The line total is computed by
// the ledger as quantity x price x (1 - discount/100).
type ProformaItemInput struct {
	ArticleID   *uint
	ArticleName string `validate:"required"`
	ArticleCode string
	Quantity    decimal.Decimal
	Unit        string
	Price       decimal.Decimal
	Discount    decimal.Decimal // percentage 0..100
	IsPaid      bool
}

// ItemPaymentBreakdown is the line-level payment report derived from the
// per-item flags. Display only; it is never written back to the header.
type ItemPaymentBreakdown struct {
	PaidTotal  decimal.Decimal `json:"paid_total"`
	OpenTotal  decimal.Decimal `json:"open_total"`
	PaidItems  int             `json:"paid_items"`
	TotalItems int             `json:"total_items"`
}

var oneHundred = decimal.NewFromInt(100)

// lineTotal computes one item total with the discount applied.
func lineTotal(in ProformaItemInput) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(in.Discount.Div(oneHundred))
	return in.Quantity.Mul(in.Price).Mul(factor).Round(2)
}

// validateProformaItems checks the item set shared by add and update.
func validateProformaItems(items []ProformaItemInput) error {
	if len(items) == 0 {
		return validationErrorf("a proforma invoice needs at least one item")
	}
	for i, it := range items {
		if strings.TrimSpace(it.ArticleName) == "" {
			return validationErrorf("item %d: article name is required", i+1)
		}
		if it.Quantity.Sign() <= 0 {
			return validationErrorf("item %d: quantity must be greater than zero", i+1)
		}
		if it.Price.Sign() < 0 {
			return validationErrorf("item %d: price must not be negative", i+1)
		}
		if it.Discount.Sign() < 0 || it.Discount.Cmp(oneHundred) > 0 {
			return validationErrorf("item %d: discount must be between 0 and 100", i+1)
		}
	}
	return nil
}

// AddProformaInvoice allocates the next proforma number and inserts the
// header and all items in one transaction. Returns the new id.
func (s *ProformaService) AddProformaInvoice(in ProformaInput, items []ProformaItemInput) (uint, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if err := validateInput(in); err != nil {
		return 0, err
	}
	if _, err := models.ParseDate(in.InvoiceDate); err != nil {
		return 0, validationErrorf("invalid date %q, expected dd.mm.yyyy", in.InvoiceDate)
	}
	if err := validateProformaItems(items); err != nil {
		return 0, err
	}

	var proforma models.ProformaInvoice
	err := s.WithTransaction(func(tx *gorm.DB) error {
		number, err := s.sequences.NextProformaNumber(tx)
		if err != nil {
			return fmt.Errorf("failed to allocate proforma number: %w", err)
		}

		proforma = models.ProformaInvoice{
			ProformaNumber: number,
			InvoiceDate:    in.InvoiceDate,
			CustomerID:     in.CustomerID,
			CustomerName:   in.CustomerName,
			TotalAmount:    itemsTotal(items),
			PaidAmount:     decimal.Zero,
			PaymentStatus:  models.StatusUnpaid,
			Notes:          in.Notes,
		}
		if err := tx.Create(&proforma).Error; err != nil {
			return err
		}
		return insertItems(tx, proforma.ID, items)
	})
	if err != nil {
		return 0, err
	}
	return proforma.ID, nil
}

// UpdateProformaInvoice replaces the header fields and the full item set
// (delete-all, insert-all; no diffing), then recomputes the payment cache
// against the new total.
func (s *ProformaService) UpdateProformaInvoice(id uint, in ProformaInput, items []ProformaItemInput) error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if err := validateInput(in); err != nil {
		return err
	}
	if _, err := models.ParseDate(in.InvoiceDate); err != nil {
		return validationErrorf("invalid date %q, expected dd.mm.yyyy", in.InvoiceDate)
	}
	if err := validateProformaItems(items); err != nil {
		return err
	}

	return s.WithTransaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ProformaInvoice{}).Where("id = ?", id).Updates(map[string]any{
			"invoice_date":  in.InvoiceDate,
			"customer_id":   in.CustomerID,
			"customer_name": in.CustomerName,
			"total_amount":  itemsTotal(items),
			"notes":         in.Notes,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("proforma %d: %w", id, ErrNotFound)
		}

		if err := tx.Where("proforma_id = ?", id).
			Delete(&models.ProformaItem{}).Error; err != nil {
			return err
		}
		if err := insertItems(tx, id, items); err != nil {
			return err
		}
		return s.recomputeFromPayments(tx, id)
	})
}

// GetProformaInvoice returns one proforma with items and payments loaded.
func (s *ProformaService) GetProformaInvoice(id uint) (*models.ProformaInvoice, error) {
	var proforma models.ProformaInvoice
	err := s.db.Preload("Items").Preload("ProformaPayments").First(&proforma, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("proforma %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &proforma, nil
}

// GetAllProformaInvoices returns proformas ordered by number, newest first.
func (s *ProformaService) GetAllProformaInvoices(includeArchived bool) ([]models.ProformaInvoice, error) {
	q := s.db.Order("proforma_number DESC")
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}
	var proformas []models.ProformaInvoice
	err := q.Find(&proformas).Error
	return proformas, err
}

// AddProformaPayment records one cash-basis payment and recomputes the
// authoritative payment cache in the same transaction.
func (s *ProformaService) AddProformaPayment(proformaID uint, in PaymentInput) (uint, error) {
	if in.Amount.Sign() <= 0 {
		return 0, validationErrorf("payment amount must be greater than zero")
	}
	if in.Date == "" {
		in.Date = models.Today()
	} else if _, err := models.ParseDate(in.Date); err != nil {
		return 0, validationErrorf("invalid payment date %q, expected dd.mm.yyyy", in.Date)
	}

	payment := models.ProformaPayment{
		ProformaID:    proformaID,
		PaymentAmount: in.Amount,
		PaymentDate:   in.Date,
		Notes:         in.Notes,
	}
	err := s.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.ProformaInvoice{}, proformaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("proforma %d: %w", proformaID, ErrNotFound)
			}
			return err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return s.recomputeFromPayments(tx, proformaID)
	})
	if err != nil {
		return 0, err
	}
	return payment.ID, nil
}

// DeleteProformaPayment removes one payment and recomputes the cache in
// the same transaction.
func (s *ProformaService) DeleteProformaPayment(paymentID uint) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		var payment models.ProformaPayment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("proforma payment %d: %w", paymentID, ErrNotFound)
			}
			return err
		}
		if err := tx.Delete(&models.ProformaPayment{}, paymentID).Error; err != nil {
			return err
		}
		return s.recomputeFromPayments(tx, payment.ProformaID)
	})
}

// GetTotalPaid sums the payment log for one proforma.
func (s *ProformaService) GetTotalPaid(proformaID uint) (decimal.Decimal, error) {
	return proformaTotalPaid(s.db, proformaID)
}

// GetRemaining returns total_amount minus the paid total.
func (s *ProformaService) GetRemaining(proformaID uint) (decimal.Decimal, error) {
	proforma, err := s.GetProformaInvoice(proformaID)
	if err != nil {
		return decimal.Zero, err
	}
	paid, err := proformaTotalPaid(s.db, proformaID)
	if err != nil {
		return decimal.Zero, err
	}
	return proforma.TotalAmount.Sub(paid), nil
}

// GetPaymentStatus derives the three-state status from the payment log.
func (s *ProformaService) GetPaymentStatus(proformaID uint) (models.PaymentStatus, error) {
	var proforma models.ProformaInvoice
	if err := s.db.First(&proforma, proformaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("proforma %d: %w", proformaID, ErrNotFound)
		}
		return "", err
	}
	paid, err := proformaTotalPaid(s.db, proformaID)
	if err != nil {
		return "", err
	}
	return models.DeriveStatus(paid, proforma.TotalAmount), nil
}

// SetItemPaid flips the line-level paid flag. Deliberately does not touch
// the header cache: the flag is reporting state, not money received.
func (s *ProformaService) SetItemPaid(itemID uint, paid bool) error {
	res := s.db.Model(&models.ProformaItem{}).Where("id = ?", itemID).
		Update("is_paid", paid)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("proforma item %d: %w", itemID, ErrNotFound)
	}
	return nil
}

// GetItemPaymentBreakdown reports the per-item paid split for display.
func (s *ProformaService) GetItemPaymentBreakdown(proformaID uint) (*ItemPaymentBreakdown, error) {
	var items []models.ProformaItem
	if err := s.db.Where("proforma_id = ?", proformaID).Find(&items).Error; err != nil {
		return nil, err
	}

	breakdown := &ItemPaymentBreakdown{
		PaidTotal: decimal.Zero,
		OpenTotal: decimal.Zero,
	}
	for _, it := range items {
		breakdown.TotalItems++
		if it.IsPaid {
			breakdown.PaidItems++
			breakdown.PaidTotal = breakdown.PaidTotal.Add(it.Total)
		} else {
			breakdown.OpenTotal = breakdown.OpenTotal.Add(it.Total)
		}
	}
	return breakdown, nil
}

// ArchiveProforma flags a settled proforma archived. Unsettled proformas
// are rejected with ErrNotArchivable.
func (s *ProformaService) ArchiveProforma(proformaID uint) error {
	status, err := s.GetPaymentStatus(proformaID)
	if err != nil {
		return err
	}
	if status != models.StatusPaid {
		return fmt.Errorf("proforma %d is %s: %w", proformaID, status, ErrNotArchivable)
	}
	return s.db.Model(&models.ProformaInvoice{}).Where("id = ?", proformaID).
		Update("is_archived", true).Error
}

// UnarchiveProforma returns a proforma from the archive.
func (s *ProformaService) UnarchiveProforma(proformaID uint) error {
	res := s.db.Model(&models.ProformaInvoice{}).Where("id = ?", proformaID).
		Update("is_archived", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("proforma %d: %w", proformaID, ErrNotFound)
	}
	return nil
}

// DeleteProformaInvoice removes a proforma and cascades its items and
// payments, all-or-nothing.
func (s *ProformaService) DeleteProformaInvoice(proformaID uint) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Where("proforma_id = ?", proformaID).
			Delete(&models.ProformaItem{}).Error; err != nil {
			return fmt.Errorf("failed to cascade items: %w", err)
		}
		if err := tx.Where("proforma_id = ?", proformaID).
			Delete(&models.ProformaPayment{}).Error; err != nil {
			return fmt.Errorf("failed to cascade payments: %w", err)
		}
		res := tx.Delete(&models.ProformaInvoice{}, proformaID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("proforma %d: %w", proformaID, ErrNotFound)
		}
		return nil
	})
}

// itemsTotal sums the computed line totals.
func itemsTotal(items []ProformaItemInput) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(lineTotal(it))
	}
	return total
}

// insertItems creates the full item set for a proforma.
func insertItems(tx *gorm.DB, proformaID uint, items []ProformaItemInput) error {
	for _, in := range items {
		item := models.ProformaItem{
			ProformaID:  proformaID,
			ArticleID:   in.ArticleID,
			ArticleName: strings.TrimSpace(in.ArticleName),
			ArticleCode: in.ArticleCode,
			Quantity:    in.Quantity,
			Unit:        in.Unit,
			Price:       in.Price,
			Discount:    in.Discount,
			Total:       lineTotal(in),
			IsPaid:      in.IsPaid,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

// proformaTotalPaid sums the payment log with decimal arithmetic.
func proformaTotalPaid(tx *gorm.DB, proformaID uint) (decimal.Decimal, error) {
	var payments []models.ProformaPayment
	if err := tx.Where("proforma_id = ?", proformaID).Find(&payments).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.PaymentAmount)
	}
	return total, nil
}

// recomputeFromPayments refreshes the authoritative paid_amount and
// payment_status cache from the payment log. Must run inside the same
// transaction as the mutation that made them stale.
func (s *ProformaService) recomputeFromPayments(tx *gorm.DB, proformaID uint) error {
	var proforma models.ProformaInvoice
	if err := tx.First(&proforma, proformaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("proforma %d: %w", proformaID, ErrNotFound)
		}
		return err
	}
	paid, err := proformaTotalPaid(tx, proformaID)
	if err != nil {
		return err
	}
	return tx.Model(&models.ProformaInvoice{}).Where("id = ?", proformaID).
		Updates(map[string]any{
			"paid_amount":    paid,
			"payment_status": models.DeriveStatus(paid, proforma.TotalAmount),
		}).Error
}
