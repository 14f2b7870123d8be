package store

import (
	"context"
	"fmt"

	"mitsypos/models"
)

type NewRecipeLine struct {
	ProductID    uint
	IngredientID uint
	Quantity     float64
	Unit         string
}

// RecipeLineUpdate is a partial update; nil fields are left untouched.
type RecipeLineUpdate struct {
	ProductID    *uint
	IngredientID *uint
	Quantity     *float64
	Unit         *string
}

// RecipeComponent is one recipe line joined to the ingredient it consumes.
type RecipeComponent struct {
	LineID         uint    `json:"line_id"`
	IngredientID   uint    `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Quantity       float64 `json:"quantity"`
	UnitCost       float64 `json:"unit_cost"`
	Stock          float64 `json:"stock"`
	IngredientUnit string  `json:"ingredient_unit"`
	PortionUnit    string  `json:"portion_unit"`
}

// RecipeLineDetail is a recipe line with the names of both ends.
type RecipeLineDetail struct {
	models.RecipeLine
	ProductName    string `json:"product_name"`
	IngredientName string `json:"ingredient_name"`
}

func (s *Store) CreateRecipeLine(ctx context.Context, input NewRecipeLine) (*models.RecipeLine, error) {
	if input.ProductID == 0 {
		return nil, fmt.Errorf("product_id is required")
	}
	if input.IngredientID == 0 {
		return nil, fmt.Errorf("ingredient_id is required")
	}

	line := models.RecipeLine{
		ProductID:    input.ProductID,
		IngredientID: input.IngredientID,
		Quantity:     input.Quantity,
		Unit:         unitOrDefault(input.Unit, models.DefaultIngredientUnit),
	}
	if err := s.conn(ctx).Create(&line).Error; err != nil {
		return nil, fmt.Errorf("create recipe line: %w", err)
	}
	return &line, nil
}

func (s *Store) GetRecipeLine(ctx context.Context, id uint) (*models.RecipeLine, error) {
	var line models.RecipeLine
	if err := s.conn(ctx).First(&line, id).Error; err != nil {
		return nil, lookupError("recipe line", id, err)
	}
	return &line, nil
}

// ListRecipeLines returns every recipe line whose product and ingredient are both active.
// A non-zero productID restricts the result to that product.
func (s *Store) ListRecipeLines(ctx context.Context, productID uint) ([]RecipeLineDetail, error) {
	query := s.conn(ctx).Table("recipe_lines").
		Select("recipe_lines.*, products.name AS product_name, ingredients.name AS ingredient_name").
		Joins("JOIN products ON products.id = recipe_lines.product_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_lines.ingredient_id").
		Where("products.active = ? AND ingredients.active = ?", true, true).
		Order("recipe_lines.id asc")
	if productID != 0 {
		query = query.Where("recipe_lines.product_id = ?", productID)
	}

	var lines []RecipeLineDetail
	if err := query.Scan(&lines).Error; err != nil {
		return nil, fmt.Errorf("list recipe lines: %w", err)
	}
	return lines, nil
}

func (s *Store) UpdateRecipeLine(ctx context.Context, id uint, update RecipeLineUpdate) error {
	updates := map[string]any{}
	if update.ProductID != nil {
		if *update.ProductID == 0 {
			return fmt.Errorf("product_id is required")
		}
		updates["product_id"] = *update.ProductID
	}
	if update.IngredientID != nil {
		if *update.IngredientID == 0 {
			return fmt.Errorf("ingredient_id is required")
		}
		updates["ingredient_id"] = *update.IngredientID
	}
	if update.Quantity != nil {
		updates["quantity"] = *update.Quantity
	}
	if update.Unit != nil {
		updates["unit"] = unitOrDefault(*update.Unit, models.DefaultIngredientUnit)
	}
	if len(updates) == 0 {
		return nil
	}

	result := s.conn(ctx).Model(&models.RecipeLine{}).Where("id = ?", id).Updates(updates)
	return notFoundIfNoRows("recipe line", id, result)
}

// DeleteRecipeLine removes the row permanently.
func (s *Store) DeleteRecipeLine(ctx context.Context, id uint) error {
	result := s.conn(ctx).Delete(&models.RecipeLine{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete recipe line %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("recipe line %d: %w", id, ErrNotFound)
	}
	return nil
}

// RecipeComponents reads, without caching, the recipe lines of productID joined to their
// ingredients. Lines whose product or ingredient is inactive are omitted.
func (s *Store) RecipeComponents(ctx context.Context, productID uint) ([]RecipeComponent, error) {
	components := []RecipeComponent{}
	err := s.conn(ctx).Table("recipe_lines").
		Select(`recipe_lines.id AS line_id,
			recipe_lines.ingredient_id AS ingredient_id,
			ingredients.name AS ingredient_name,
			recipe_lines.quantity AS quantity,
			ingredients.unit_cost AS unit_cost,
			ingredients.stock AS stock,
			ingredients.unit AS ingredient_unit,
			recipe_lines.unit AS portion_unit`).
		Joins("JOIN ingredients ON ingredients.id = recipe_lines.ingredient_id").
		Joins("JOIN products ON products.id = recipe_lines.product_id").
		Where("recipe_lines.product_id = ? AND ingredients.active = ? AND products.active = ?", productID, true, true).
		Order("recipe_lines.id asc").
		Scan(&components).Error
	if err != nil {
		return nil, fmt.Errorf("load recipe of product %d: %w", productID, err)
	}
	return components, nil
}
