package models

import "time"

// Product is a sellable menu item. Cost, Profit and EstimatedStock are derived from the
// product's recipe lines whenever one exists.
type Product struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"not null" json:"name"`
	Price          float64      `gorm:"not null" json:"price"`
	Cost           float64      `gorm:"not null" json:"cost"`
	Profit         float64      `json:"profit"`
	Unit           string       `gorm:"not null;default:Pza" json:"unit"`
	EstimatedStock int          `gorm:"not null;default:0" json:"estimated_stock"`
	MinimumStock   float64      `gorm:"not null;default:0" json:"minimum_stock"`
	ManageStock    bool         `gorm:"not null;default:false" json:"manage_stock"`
	Image          string       `json:"image,omitempty"`
	Active         bool         `gorm:"not null;default:true;index" json:"active"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	RecipeLines    []RecipeLine `gorm:"foreignKey:ProductID" json:"recipe_lines,omitempty"`
}

// DefaultProductUnit is applied when a product is created without a unit label.
const DefaultProductUnit = "Pza"

// BelowMinimum reports whether the estimated stock has reached the minimum threshold.
// Products without stock management never report low stock.
func (p Product) BelowMinimum() bool {
	if !p.ManageStock {
		return false
	}
	return float64(p.EstimatedStock) <= p.MinimumStock
}
