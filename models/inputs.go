package models

// Form inputs, validated before they reach the database. The email check is
// deliberately loose (must contain "@" and "."), and the phone is stored as
// digits only with 8 to 15 digits when present.

type CustomerInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,contains=@,contains=."`
	Phone string `json:"phone" validate:"omitempty,numeric,min=8,max=15"`
}

type ProductInput struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

type OrderItemInput struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

type OrderInput struct {
	CustomerID uint             `json:"customer_id" validate:"required"`
	Date       string           `json:"date" validate:"required,datetime=2006-01-02"`
	Items      []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}
