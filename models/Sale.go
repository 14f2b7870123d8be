package models

import "time"

// Sale is one line of a checkout. All lines of the same checkout share Number.
type Sale struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Number        int       `gorm:"not null;index" json:"number"`
	SoldAt        time.Time `gorm:"not null" json:"sold_at"`
	ProductName   string    `gorm:"not null" json:"product_name"`
	ProductID     *uint     `gorm:"index" json:"product_id,omitempty"`
	Quantity      float64   `gorm:"not null" json:"quantity"`
	UnitPrice     float64   `gorm:"not null" json:"unit_price"`
	Total         float64   `gorm:"not null" json:"total"`
	PaymentMethod string    `gorm:"not null;default:cash" json:"payment_method"`
	Table         string    `gorm:"column:table_label" json:"table,omitempty"`
	Tip           float64   `gorm:"not null;default:0" json:"tip"`
}

const DefaultPaymentMethod = "cash"
