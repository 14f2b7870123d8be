package models

import (
	"time"

	"gorm.io/datatypes"
)

// PendingOrder holds the open tab of a table until it is checked out.
type PendingOrder struct {
	ID        uint                           `gorm:"primaryKey" json:"id"`
	Table     string                         `gorm:"column:table_label;not null" json:"table"`
	Items     datatypes.JSONSlice[OrderItem] `json:"items"`
	Total     float64                        `gorm:"not null;default:0" json:"total"`
	CreatedAt time.Time                      `gorm:"autoCreateTime" json:"created_at"`
}

// OrderItem is a product waiting to be charged on a pending order.
type OrderItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ItemsTotal sums quantity times unit price over items.
func ItemsTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Quantity * item.UnitPrice
	}
	return total
}
