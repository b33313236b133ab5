package store

import (
	"orderdesk/models"

	"gorm.io/gorm"
)

// ProductStore is the product catalog repository.
type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// Create validates and inserts a product. A name collision with an existing
// product surfaces as ErrDuplicateName.
func (s *ProductStore) Create(in models.ProductInput) (*models.Product, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	product := models.Product{Name: in.Name, Price: in.Price}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, mapError(err)
	}
	return &product, nil
}

func (s *ProductStore) Update(id uint, in models.ProductInput) (*models.Product, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		return nil, mapError(err)
	}
	product.Name = in.Name
	product.Price = in.Price
	if err := s.db.Save(&product).Error; err != nil {
		return nil, mapError(err)
	}
	return &product, nil
}

func (s *ProductStore) Get(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &product, nil
}

// Delete removes a product. A product referenced by order items is protected
// by the foreign-key constraint and surfaces as ErrInUse.
func (s *ProductStore) Delete(id uint) error {
	res := s.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns products ordered by name, optionally filtered by a substring
// match on the name.
func (s *ProductStore) List(search string) ([]models.Product, error) {
	q := s.db.Order("name ASC")
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
