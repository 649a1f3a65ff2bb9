package services

import (
	"errors"
	"fmt"

	"BooksApp/app/logger"
	"BooksApp/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RevenueService is the daily-revenue ("pazar") ledger: per-period channel
// totals with a simple settled/unsettled flag.
//
// The stored amount is supplied by the caller, not derived here; the
// invariant amount == cash+card+wire+checks is the caller's contract. A
// mismatch is logged but accepted, matching the historical data files.
type RevenueService struct {
	*BaseService
}

// NewRevenueService creates a new revenue service.
func NewRevenueService() *RevenueService {
	return &RevenueService{NewBaseService()}
}

// RevenueInput carries the writable revenue-entry fields.
type RevenueInput struct {
	EntryDate string `validate:"required"`
	DateFrom  string `validate:"required"`
	DateTo    string
	Cash      decimal.Decimal
	Card      decimal.Decimal
	Wire      decimal.Decimal
	Checks    decimal.Decimal
	Amount    decimal.Decimal
	Notes     string
}

func validateRevenueInput(in *RevenueInput) error {
	if err := validateInput(*in); err != nil {
		return err
	}
	if in.DateTo == "" {
		in.DateTo = in.DateFrom
	}
	for _, d := range []string{in.EntryDate, in.DateFrom, in.DateTo} {
		if _, err := models.ParseDate(d); err != nil {
			return validationErrorf("invalid date %q, expected dd.mm.yyyy", d)
		}
	}
	from, _ := models.ParseDate(in.DateFrom)
	to, _ := models.ParseDate(in.DateTo)
	if from.After(to) {
		return validationErrorf("date_from %s is after date_to %s", in.DateFrom, in.DateTo)
	}
	for _, c := range []decimal.Decimal{in.Cash, in.Card, in.Wire, in.Checks, in.Amount} {
		if c.Sign() < 0 {
			return validationErrorf("revenue amounts must not be negative")
		}
	}
	return nil
}

// warnOnChannelMismatch logs when the stored amount disagrees with the
// channel sum.
func warnOnChannelMismatch(in RevenueInput) {
	sum := decimal.Sum(in.Cash, in.Card, in.Wire, in.Checks)
	if !in.Amount.Equal(sum) {
		log := logger.WithComponent("revenue")
		log.Warn().
			Str("amount", in.Amount.String()).
			Str("channel_sum", sum.String()).
			Msg("stored amount differs from channel sum")
	}
}

// CheckDateOverlap reports whether another entry already covers dateFrom.
// excludeID skips one entry, for the update path; pass 0 on insert.
func (s *RevenueService) CheckDateOverlap(dateFrom string, excludeID uint) (bool, error) {
	var count int64
	q := s.db.Model(&models.RevenueEntry{}).Where("date_from = ?", dateFrom)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddRevenueEntry validates and inserts an entry, rejecting a second entry
// for the same date_from with ErrDateConflict. Returns the new id.
func (s *RevenueService) AddRevenueEntry(in RevenueInput) (uint, error) {
	if err := validateRevenueInput(&in); err != nil {
		return 0, err
	}

	var entry models.RevenueEntry
	err := s.WithTransaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.RevenueEntry{}).
			Where("date_from = ?", in.DateFrom).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("date %s: %w", in.DateFrom, ErrDateConflict)
		}

		warnOnChannelMismatch(in)
		entry = models.RevenueEntry{
			EntryDate:     in.EntryDate,
			DateFrom:      in.DateFrom,
			DateTo:        in.DateTo,
			Cash:          in.Cash,
			Card:          in.Card,
			Wire:          in.Wire,
			Checks:        in.Checks,
			Amount:        in.Amount,
			PaymentStatus: models.StatusUnpaid,
			Notes:         in.Notes,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// UpdateRevenueEntry replaces an entry's writable fields, with the same
// date-conflict check excluding the entry itself.
func (s *RevenueService) UpdateRevenueEntry(id uint, in RevenueInput) error {
	if err := validateRevenueInput(&in); err != nil {
		return err
	}

	return s.WithTransaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.RevenueEntry{}).
			Where("date_from = ? AND id <> ?", in.DateFrom, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("date %s: %w", in.DateFrom, ErrDateConflict)
		}

		warnOnChannelMismatch(in)
		res := tx.Model(&models.RevenueEntry{}).Where("id = ?", id).
			Updates(map[string]any{
				"entry_date": in.EntryDate,
				"date_from":  in.DateFrom,
				"date_to":    in.DateTo,
				"cash":       in.Cash,
				"card":       in.Card,
				"wire":       in.Wire,
				"checks":     in.Checks,
				"amount":     in.Amount,
				"notes":      in.Notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("revenue entry %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// GetRevenueEntry returns one entry by id.
func (s *RevenueService) GetRevenueEntry(id uint) (*models.RevenueEntry, error) {
	var entry models.RevenueEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("revenue entry %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &entry, nil
}

// GetAllRevenueEntries returns entries ordered by period start, newest
// first.
func (s *RevenueService) GetAllRevenueEntries() ([]models.RevenueEntry, error) {
	var entries []models.RevenueEntry
	err := s.db.Order("date_from DESC").Find(&entries).Error
	return entries, err
}

// GetUnsettledEntries returns the entries still awaiting settlement.
func (s *RevenueService) GetUnsettledEntries() ([]models.RevenueEntry, error) {
	var entries []models.RevenueEntry
	err := s.db.Where("payment_status = ?", models.StatusUnpaid).
		Order("date_from").Find(&entries).Error
	return entries, err
}

// MarkAsPaid settles a batch of entries on one date, all-or-nothing: a
// failure on any entry rolls the whole settlement back.
func (s *RevenueService) MarkAsPaid(entryIDs []uint, paymentDate string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	if paymentDate == "" {
		paymentDate = models.Today()
	} else if _, err := models.ParseDate(paymentDate); err != nil {
		return validationErrorf("invalid payment date %q, expected dd.mm.yyyy", paymentDate)
	}

	return s.WithTransaction(func(tx *gorm.DB) error {
		for _, id := range entryIDs {
			res := tx.Model(&models.RevenueEntry{}).Where("id = ?", id).
				Updates(map[string]any{
					"payment_status": models.StatusPaid,
					"payment_date":   paymentDate,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("revenue entry %d: %w", id, ErrNotFound)
			}
		}
		return nil
	})
}

// DeleteRevenueEntry removes an entry.
func (s *RevenueService) DeleteRevenueEntry(id uint) error {
	res := s.db.Delete(&models.RevenueEntry{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("revenue entry %d: %w", id, ErrNotFound)
	}
	return nil
}
