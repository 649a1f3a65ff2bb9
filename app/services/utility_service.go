package services

import (
	"errors"
	"fmt"
	"strings"

	"BooksApp/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UtilityService is the utility-bill ledger and the utility-type store.
//
// Unlike the invoice and proforma ledgers there is no payment log: payment
// is one cumulative paid_amount per bill, and paying more than the billed
// amount is the supported Overpaid ("Pretplata") state.
type UtilityService struct {
	*BaseService
}

// NewUtilityService creates a new utility service.
func NewUtilityService() *UtilityService {
	return &UtilityService{NewBaseService()}
}

// UtilityBillInput carries the writable bill fields.
type UtilityBillInput struct {
	BillDate        string `validate:"required"`
	EntryDate       string
	UtilityTypeID   *uint
	UtilityTypeName string
	Amount          decimal.Decimal
	Notes           string
}

func validateBillInput(in *UtilityBillInput) error {
	if err := validateInput(*in); err != nil {
		return err
	}
	if in.Amount.Sign() <= 0 {
		return validationErrorf("bill amount must be greater than zero")
	}
	if _, err := models.ParseDate(in.BillDate); err != nil {
		return validationErrorf("invalid bill date %q, expected dd.mm.yyyy", in.BillDate)
	}
	if in.EntryDate == "" {
		in.EntryDate = models.Today()
	} else if _, err := models.ParseDate(in.EntryDate); err != nil {
		return validationErrorf("invalid entry date %q, expected dd.mm.yyyy", in.EntryDate)
	}
	return nil
}

// resolveUtilityType fills the denormalized type name from the reference
// row when only the id was supplied.
func resolveUtilityType(tx *gorm.DB, in *UtilityBillInput) error {
	if in.UtilityTypeID == nil || in.UtilityTypeName != "" {
		return nil
	}
	var ut models.UtilityType
	if err := tx.First(&ut, *in.UtilityTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("utility type %d: %w", *in.UtilityTypeID, ErrNotFound)
		}
		return err
	}
	in.UtilityTypeName = ut.Name
	return nil
}

// AddUtilityBill validates and inserts a bill, returning the new id.
func (s *UtilityService) AddUtilityBill(in UtilityBillInput) (uint, error) {
	if err := validateBillInput(&in); err != nil {
		return 0, err
	}

	var bill models.UtilityBill
	err := s.WithTransaction(func(tx *gorm.DB) error {
		if err := resolveUtilityType(tx, &in); err != nil {
			return err
		}
		bill = models.UtilityBill{
			BillDate:        in.BillDate,
			EntryDate:       in.EntryDate,
			UtilityTypeID:   in.UtilityTypeID,
			UtilityTypeName: in.UtilityTypeName,
			Amount:          in.Amount,
			PaidAmount:      decimal.Zero,
			PaymentStatus:   models.StatusUnpaid,
			Notes:           in.Notes,
		}
		return tx.Create(&bill).Error
	})
	if err != nil {
		return 0, err
	}
	return bill.ID, nil
}

// UpdateUtilityBill replaces a bill's writable fields and rederives the
// status against the possibly changed amount.
func (s *UtilityService) UpdateUtilityBill(id uint, in UtilityBillInput) error {
	if err := validateBillInput(&in); err != nil {
		return err
	}

	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := resolveUtilityType(tx, &in); err != nil {
			return err
		}
		var bill models.UtilityBill
		if err := tx.First(&bill, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("utility bill %d: %w", id, ErrNotFound)
			}
			return err
		}
		return tx.Model(&models.UtilityBill{}).Where("id = ?", id).
			Updates(map[string]any{
				"bill_date":         in.BillDate,
				"entry_date":        in.EntryDate,
				"utility_type_id":   in.UtilityTypeID,
				"utility_type_name": in.UtilityTypeName,
				"amount":            in.Amount,
				"notes":             in.Notes,
				"payment_status":    models.DeriveUtilityStatus(bill.PaidAmount, in.Amount),
			}).Error
	})
}

// UpdatePayment sets the cumulative paid amount and recomputes the
// four-state status. paid > amount is Overpaid, a valid terminal state.
func (s *UtilityService) UpdatePayment(billID uint, paidAmount decimal.Decimal, paymentDate string) error {
	if paidAmount.Sign() < 0 {
		return validationErrorf("paid amount must not be negative")
	}
	if paymentDate == "" {
		paymentDate = models.Today()
	} else if _, err := models.ParseDate(paymentDate); err != nil {
		return validationErrorf("invalid payment date %q, expected dd.mm.yyyy", paymentDate)
	}

	return s.WithTransaction(func(tx *gorm.DB) error {
		var bill models.UtilityBill
		if err := tx.First(&bill, billID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("utility bill %d: %w", billID, ErrNotFound)
			}
			return err
		}

		updates := map[string]any{
			"paid_amount":    paidAmount,
			"payment_status": models.DeriveUtilityStatus(paidAmount, bill.Amount),
		}
		if paidAmount.Sign() > 0 {
			updates["payment_date"] = paymentDate
		} else {
			updates["payment_date"] = nil
		}
		return tx.Model(&models.UtilityBill{}).Where("id = ?", billID).
			Updates(updates).Error
	})
}

// GetUtilityBill returns one bill by id.
func (s *UtilityService) GetUtilityBill(id uint) (*models.UtilityBill, error) {
	var bill models.UtilityBill
	if err := s.db.First(&bill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("utility bill %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &bill, nil
}

// GetAllUtilityBills returns bills ordered by bill date, newest first.
func (s *UtilityService) GetAllUtilityBills(includeArchived bool) ([]models.UtilityBill, error) {
	q := s.db.Order("bill_date DESC")
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}
	var bills []models.UtilityBill
	err := q.Find(&bills).Error
	return bills, err
}

// ArchiveUtilityBill flags a settled bill archived. The ledger enforces
// the rule here: only Paid or Overpaid bills can leave the working set.
func (s *UtilityService) ArchiveUtilityBill(billID uint) error {
	bill, err := s.GetUtilityBill(billID)
	if err != nil {
		return err
	}
	if bill.PaymentStatus != models.StatusPaid && bill.PaymentStatus != models.StatusOverpaid {
		return fmt.Errorf("utility bill %d is %s: %w", billID, bill.PaymentStatus, ErrNotArchivable)
	}
	return s.db.Model(&models.UtilityBill{}).Where("id = ?", billID).
		Update("is_archived", true).Error
}

// DeleteUtilityBill removes a bill.
func (s *UtilityService) DeleteUtilityBill(billID uint) error {
	res := s.db.Delete(&models.UtilityBill{}, billID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("utility bill %d: %w", billID, ErrNotFound)
	}
	return nil
}

// AddUtilityType inserts a bill category.
func (s *UtilityService) AddUtilityType(name, notes string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, validationErrorf("utility type name is required")
	}
	ut := models.UtilityType{Name: name, Notes: notes}
	if err := s.db.Create(&ut).Error; err != nil {
		return 0, err
	}
	return ut.ID, nil
}

// GetAllUtilityTypes returns all bill categories ordered by name.
func (s *UtilityService) GetAllUtilityTypes() ([]models.UtilityType, error) {
	var types []models.UtilityType
	err := s.db.Order("name").Find(&types).Error
	return types, err
}

// DeleteUtilityType removes a category. Bills keep their denormalized type
// name; their utility_type_id is detached.
func (s *UtilityService) DeleteUtilityType(id uint) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UtilityBill{}).
			Where("utility_type_id = ?", id).
			Update("utility_type_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.UtilityType{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("utility type %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
