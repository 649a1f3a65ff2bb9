package services

import (
	"errors"
	"fmt"
	"strings"

	"BooksApp/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VendorService is the entity store for vendors. Vendor deletion is the one
// cascading operation here: invoices are linked to vendors both by id and,
// for historical data, by name, and both linkages are cleaned up atomically.
type VendorService struct {
	*BaseService
	sequences *SequenceService
}

// NewVendorService creates a new vendor service.
func NewVendorService() *VendorService {
	return &VendorService{NewBaseService(), NewSequenceService()}
}

// VendorInput carries the writable vendor fields.
type VendorInput struct {
	Name               string `validate:"required"`
	VendorCode         string
	Address            string
	City               string
	PIB                string
	RegistrationNumber string
	BankAccount        string
	ContactPerson      string
	Phone              string
	Email              string
	Notes              string
}

// VendorStats summarizes one vendor's invoice history.
type VendorStats struct {
	TotalInvoices  int64           `json:"total_invoices"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidInvoices   int64           `json:"paid_invoices"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	UnpaidInvoices int64           `json:"unpaid_invoices"`
	UnpaidAmount   decimal.Decimal `json:"unpaid_amount"`
}

// AddVendor validates and inserts a vendor, allocating the next vendor code
// when the caller did not supply one. Returns the new id.
func (s *VendorService) AddVendor(in VendorInput) (uint, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return 0, err
	}

	vendor := models.Vendor{
		Name:               in.Name,
		VendorCode:         strings.TrimSpace(in.VendorCode),
		Address:            in.Address,
		City:               in.City,
		PIB:                in.PIB,
		RegistrationNumber: in.RegistrationNumber,
		BankAccount:        in.BankAccount,
		ContactPerson:      in.ContactPerson,
		Phone:              in.Phone,
		Email:              in.Email,
		Notes:              in.Notes,
	}

	err := s.WithTransaction(func(tx *gorm.DB) error {
		if vendor.VendorCode == "" {
			code, err := s.sequences.NextEntityCode(tx, "vendors")
			if err != nil {
				return fmt.Errorf("failed to allocate vendor code: %w", err)
			}
			vendor.VendorCode = code
		}
		return tx.Create(&vendor).Error
	})
	if err != nil {
		return 0, err
	}
	return vendor.ID, nil
}

// UpdateVendor updates a vendor's writable fields. The code is kept unless
// the input carries a new one.
func (s *VendorService) UpdateVendor(id uint, in VendorInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return err
	}

	updates := map[string]any{
		"name":                in.Name,
		"address":             in.Address,
		"city":                in.City,
		"pib":                 in.PIB,
		"registration_number": in.RegistrationNumber,
		"bank_account":        in.BankAccount,
		"contact_person":      in.ContactPerson,
		"phone":               in.Phone,
		"email":               in.Email,
		"notes":               in.Notes,
	}
	if code := strings.TrimSpace(in.VendorCode); code != "" {
		updates["vendor_code"] = code
	}

	res := s.db.Model(&models.Vendor{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vendor %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetVendor returns one vendor by id.
func (s *VendorService) GetVendor(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vendor %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &vendor, nil
}

// GetAllVendors returns all vendors ordered by name.
func (s *VendorService) GetAllVendors() ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := s.db.Order("name").Find(&vendors).Error
	return vendors, err
}

// GetVendorNames returns the distinct vendor names known to the system:
// the vendors table merged with names that exist only on historical
// invoices, sorted alphabetically.
func (s *VendorService) GetVendorNames() ([]string, error) {
	var names []string
	err := s.db.Raw(`
		SELECT DISTINCT name AS vendor_name FROM vendors
		WHERE name IS NOT NULL AND name != ''
		UNION
		SELECT DISTINCT vendor_name FROM invoices
		WHERE vendor_name IS NOT NULL AND vendor_name != ''
		ORDER BY 1
	`).Scan(&names).Error
	return names, err
}

// DeleteVendor deletes a vendor by id together with every invoice linked to
// it by id or by its name, and those invoices' payments. All-or-nothing.
func (s *VendorService) DeleteVendor(id uint) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		var vendor models.Vendor
		if err := tx.First(&vendor, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("vendor %d: %w", id, ErrNotFound)
			}
			return err
		}
		if err := deleteVendorInvoices(tx, "vendor_name = ? OR vendor_id = ?", vendor.Name, id); err != nil {
			return err
		}
		return tx.Delete(&models.Vendor{}, id).Error
	})
}

// DeleteVendorByName deletes a vendor row matched by name (legacy linkage)
// together with every invoice carrying that name.
func (s *VendorService) DeleteVendorByName(name string) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := deleteVendorInvoices(tx, "vendor_name = ?", name); err != nil {
			return err
		}
		return tx.Where("name = ?", name).Delete(&models.Vendor{}).Error
	})
}

// deleteVendorInvoices removes the invoices matching cond and their
// payments inside the caller's transaction.
func deleteVendorInvoices(tx *gorm.DB, cond string, args ...any) error {
	var invoiceIDs []uint
	if err := tx.Model(&models.Invoice{}).Where(cond, args...).
		Pluck("id", &invoiceIDs).Error; err != nil {
		return err
	}
	if len(invoiceIDs) == 0 {
		return nil
	}
	if err := tx.Where("invoice_id IN ?", invoiceIDs).
		Delete(&models.Payment{}).Error; err != nil {
		return fmt.Errorf("failed to cascade payments: %w", err)
	}
	if err := tx.Where("id IN ?", invoiceIDs).
		Delete(&models.Invoice{}).Error; err != nil {
		return fmt.Errorf("failed to cascade invoices: %w", err)
	}
	return nil
}

// UpdateVendorName renames a vendor everywhere the name is denormalized:
// the vendors table and every invoice carrying the old name.
func (s *VendorService) UpdateVendorName(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return validationErrorf("vendor name is required")
	}
	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Invoice{}).Where("vendor_name = ?", oldName).
			Update("vendor_name", newName).Error; err != nil {
			return err
		}
		return tx.Model(&models.Vendor{}).Where("name = ?", oldName).
			Update("name", newName).Error
	})
}

// GetVendorStats sums the invoice history for one vendor name.
func (s *VendorService) GetVendorStats(name string) (*VendorStats, error) {
	var invoices []models.Invoice
	if err := s.db.Where("vendor_name = ?", name).Find(&invoices).Error; err != nil {
		return nil, err
	}

	stats := &VendorStats{
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
