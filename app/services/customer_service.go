package services

import (
	"errors"
	"fmt"
	"strings"

	"BooksApp/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerService is the entity store for customers.
type CustomerService struct {
	*BaseService
	sequences *SequenceService
}

// NewCustomerService creates a new customer service.
func NewCustomerService() *CustomerService {
	return &CustomerService{NewBaseService(), NewSequenceService()}
}

// CustomerInput carries the writable customer fields.
type CustomerInput struct {
	Name         string `validate:"required"`
	CustomerCode string
	Address      string
	City         string
	PIB          string
	Phone        string
	Email        string
	Notes        string
}

// AddCustomer validates and inserts a customer, allocating the next
// customer code when none is supplied.
func (s *CustomerService) AddCustomer(in CustomerInput) (uint, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return 0, err
	}

	customer := models.Customer{
		Name:         in.Name,
		CustomerCode: strings.TrimSpace(in.CustomerCode),
		Address:      in.Address,
		City:         in.City,
		PIB:          in.PIB,
		Phone:        in.Phone,
		Email:        in.Email,
		Notes:        in.Notes,
	}

	err := s.WithTransaction(func(tx *gorm.DB) error {
		if customer.CustomerCode == "" {
			code, err := s.sequences.NextEntityCode(tx, "customers")
			if err != nil {
				return fmt.Errorf("failed to allocate customer code: %w", err)
			}
			customer.CustomerCode = code
		}
		return tx.Create(&customer).Error
	})
	if err != nil {
		return 0, err
	}
	return customer.ID, nil
}

// UpdateCustomer updates a customer's writable fields.
func (s *CustomerService) UpdateCustomer(id uint, in CustomerInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return err
	}

	updates := map[string]any{
		"name":    in.Name,
		"address": in.Address,
		"city":    in.City,
		"pib":     in.PIB,
		"phone":   in.Phone,
		"email":   in.Email,
		"notes":   in.Notes,
	}
	if code := strings.TrimSpace(in.CustomerCode); code != "" {
		updates["customer_code"] = code
	}

	res := s.db.Model(&models.Customer{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetCustomer returns one customer by id.
func (s *CustomerService) GetCustomer(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &customer, nil
}

// GetAllCustomers returns all customers ordered by name.
func (s *CustomerService) GetAllCustomers() ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.Order("name").Find(&customers).Error
	return customers, err
}

// CustomerStats summarizes one customer's proforma history.
type CustomerStats struct {
	TotalProformas int64           `json:"total_proformas"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	OpenAmount     decimal.Decimal `json:"open_amount"`
}

// GetCustomerStats sums the proforma history for one customer name.
func (s *CustomerService) GetCustomerStats(name string) (*CustomerStats, error) {
	var proformas []models.ProformaInvoice
	if err := s.db.Where("customer_name = ?", name).Find(&proformas).Error; err != nil {
		return nil, err
	}

	stats := &CustomerStats{
		TotalAmount: decimal.Zero,
		PaidAmount:  decimal.Zero,
		OpenAmount:  decimal.Zero,
	}
	for _, p := range proformas {
		stats.TotalProformas++
		stats.TotalAmount = stats.TotalAmount.Add(p.TotalAmount)
		stats.PaidAmount = stats.PaidAmount.Add(p.PaidAmount)
		stats.OpenAmount = stats.OpenAmount.Add(p.TotalAmount.Sub(p.PaidAmount))
	}
	return stats, nil
}

// DeleteCustomer removes a customer. Proforma invoices keep their
// denormalized customer_name; their customer_id is detached.
func (s *CustomerService) DeleteCustomer(id uint) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProformaInvoice{}).
			Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Customer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
