package store

import (
	"errors"
	"fmt"
	"sync"

	"orderdesk/models"

	"gorm.io/gorm"
)

// OrderStore owns the transactional write path for orders. A single mutex
// serializes writers: the deployment is single-process and SQLite gives no
// useful concurrency for writes anyway.
type OrderStore struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// OrderRow is the shape of the order list consumed by the presentation layer.
type OrderRow struct {
	ID           uint    `json:"id"`
	Date         string  `json:"date"`
	CustomerName string  `json:"customer_name"`
	Total        float64 `json:"total"`
}

// RecentOrder is the read-only shape handed to the sales-insight collaborator.
type RecentOrder struct {
	ID       uint         `json:"id"`
	Date     string       `json:"date"`
	Total    float64      `json:"total"`
	Customer string       `json:"customer"`
	Items    []RecentItem `gorm:"-" json:"items"`
}

type RecentItem struct {
	Product   string  `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Create inserts an order header plus its line items in one transaction and
// returns the generated order id. The total is computed here from the items,
// never taken from the caller. On any failure the whole transaction rolls
// back: no header without items, no items without a header.
func (s *OrderStore) Create(in models.OrderInput) (uint, error) {
	if len(in.Items) == 0 {
		return 0, ErrNoItems
	}
	if err := validateInput(&in); err != nil {
		return 0, err
	}

	var total float64
	for _, item := range in.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var orderID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Customer{}).Where("id = ?", in.CustomerID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: id %d", ErrCustomerNotFound, in.CustomerID)
		}

		order := models.Order{CustomerID: in.CustomerID, Date: in.Date, Total: total}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(in.Items))
		for _, item := range in.Items {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return 0, err
		}
		// Constraint or driver failure inside the transaction: everything was
		// rolled back, surface it as the single order-not-saved condition.
		return 0, fmt.Errorf("%w: %v", ErrOrderNotSaved, err)
	}
	return orderID, nil
}

// Get loads a single order with its items.
func (s *OrderStore) Get(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &order, nil
}

// List returns all orders with the customer name, newest first.
func (s *OrderStore) List() ([]OrderRow, error) {
	var rows []OrderRow
	err := s.db.Table("orders").
		Select("orders.id, orders.date, customers.name AS customer_name, orders.total").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Order("orders.date DESC, orders.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Recent returns the last n orders with nested items. It is read-only and
// side-effect-free; the sales-insight collaborator consumes it as input only.
func (s *OrderStore) Recent(n int) ([]RecentOrder, error) {
	var orders []RecentOrder
	err := s.db.Table("orders").
		Select("orders.id, orders.date, orders.total, customers.name AS customer").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Order("orders.date DESC, orders.id DESC").
		Limit(n).
		Scan(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("loading recent orders: %w", err)
	}

	for i := range orders {
		err := s.db.Table("order_items").
			Select("products.name AS product, order_items.quantity, order_items.unit_price").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("order_items.order_id = ?", orders[i].ID).
			Scan(&orders[i].Items).Error
		if err != nil {
			return nil, fmt.Errorf("loading items for order %d: %w", orders[i].ID, err)
		}
	}
	return orders, nil
}
