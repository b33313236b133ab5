package models

type Product struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"not null;unique" json:"name"`
	Price float64 `gorm:"not null;check:price >= 0" json:"price"`
}
