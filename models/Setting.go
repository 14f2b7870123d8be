package models

import "time"

// Setting is a key/value pair of application configuration persisted in the database.
type Setting struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"column:setting_key;uniqueIndex;not null"`
	Value     string
	UpdatedAt time.Time
}

const (
	SettingStockManagement = "stock_management_enabled"
	SettingLastSaleNumber  = "last_sale_number"
)

// DefaultSettings lists the keys seeded on first start and their initial values.
var DefaultSettings = map[string]string{
	SettingStockManagement: "0",
	SettingLastSaleNumber:  "0",
}
