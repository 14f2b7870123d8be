package models

import "time"

type RecipeLine struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"`
	IngredientID uint      `gorm:"not null;index" json:"ingredient_id"`
	Quantity     float64   `gorm:"not null" json:"quantity"` // per one unit of product
	Unit         string    `gorm:"not null;default:Kg" json:"unit"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Product    *Product    `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}
