package models

// Order is the order header. Total is denormalized: it is computed from the
// line items when the order is created and never recomputed afterwards.
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CustomerID uint        `gorm:"not null;index" json:"customer_id"`
	Date       string      `gorm:"not null" json:"date"`
	Total      float64     `json:"total"`
	Customer   Customer    `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem is one line of an order. UnitPrice is a snapshot taken at order
// time; later catalog price changes do not touch it.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
}

// Subtotal is derived, never stored.
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
