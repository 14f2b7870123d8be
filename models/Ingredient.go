package models

import "time"

// Ingredient is a raw material held in inventory. Stock may go negative after an oversell.
type Ingredient struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Unit        string    `gorm:"not null;default:Kg" json:"unit"`
	UnitCost    float64   `gorm:"not null" json:"unit_cost"`
	Stock       float64   `gorm:"not null;default:0" json:"stock"`
	ManageStock bool      `gorm:"not null;default:false" json:"manage_stock"`
	Active      bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// DefaultIngredientUnit is the storage unit used when none is given.
const DefaultIngredientUnit = "Kg"
