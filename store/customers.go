package store

import (
	"regexp"

	"orderdesk/models"

	"gorm.io/gorm"
)

var nonDigits = regexp.MustCompile(`\D`)

// CustomerStore is the customer repository.
type CustomerStore struct {
	db *gorm.DB
}

func NewCustomerStore(db *gorm.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// Create validates and inserts a customer. The phone is normalized to digits
// only before validation, matching what gets stored.
func (s *CustomerStore) Create(in models.CustomerInput) (*models.Customer, error) {
	in.Phone = nonDigits.ReplaceAllString(in.Phone, "")
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	customer := models.Customer{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := s.db.Create(&customer).Error; err != nil {
		return nil, mapError(err)
	}
	return &customer, nil
}

func (s *CustomerStore) Update(id uint, in models.CustomerInput) (*models.Customer, error) {
	in.Phone = nonDigits.ReplaceAllString(in.Phone, "")
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		return nil, mapError(err)
	}
	customer.Name = in.Name
	customer.Email = in.Email
	customer.Phone = in.Phone
	if err := s.db.Save(&customer).Error; err != nil {
		return nil, mapError(err)
	}
	return &customer, nil
}

func (s *CustomerStore) Get(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &customer, nil
}

// Delete removes a customer. A customer with existing orders is protected by
// the foreign-key constraint and surfaces as ErrInUse.
func (s *CustomerStore) Delete(id uint) error {
	res := s.db.Delete(&models.Customer{}, id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns customers ordered by name. A non-empty search term matches
// name or email as a substring.
func (s *CustomerStore) List(search string) ([]models.Customer, error) {
	q := s.db.Order("name ASC")
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	var customers []models.Customer
	if err := q.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}
