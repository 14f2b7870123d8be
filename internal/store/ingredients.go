package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"mitsypos/internal/textkey"
	"mitsypos/models"
)

type NewIngredient struct {
	Name        string
	Unit        string
	UnitCost    float64
	Stock       float64
	ManageStock bool
}

// IngredientUpdate is a partial update; nil fields are left untouched.
type IngredientUpdate struct {
	Name        *string
	Unit        *string
	UnitCost    *float64
	Stock       *float64
	ManageStock *bool
}

func (s *Store) CreateIngredient(ctx context.Context, input NewIngredient) (*models.Ingredient, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("ingredient name is required")
	}

	ingredient := models.Ingredient{
		Name:        name,
		Unit:        unitOrDefault(input.Unit, models.DefaultIngredientUnit),
		UnitCost:    input.UnitCost,
		Stock:       input.Stock,
		ManageStock: input.ManageStock,
		Active:      true,
	}
	if err := s.conn(ctx).Create(&ingredient).Error; err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	return &ingredient, nil
}

func (s *Store) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.conn(ctx).First(&ingredient, id).Error; err != nil {
		return nil, lookupError("ingredient", id, err)
	}
	return &ingredient, nil
}

func (s *Store) ListIngredients(ctx context.Context, opts ListOptions) ([]models.Ingredient, error) {
	query := s.conn(ctx).Order("id asc")
	if !opts.IncludeInactive {
		query = query.Where("active = ?", true)
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

// SearchIngredients matches active ingredient names ignoring case and accents.
func (s *Store) SearchIngredients(ctx context.Context, query string) ([]models.Ingredient, error) {
	ingredients, err := s.ListIngredients(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}

	matches := make([]models.Ingredient, 0, len(ingredients))
	for _, ingredient := range ingredients {
		if textkey.Contains(ingredient.Name, query) {
			matches = append(matches, ingredient)
		}
	}
	return matches, nil
}

// FindIngredientByName returns the active ingredient whose normalized name equals name,
// or nil when there is none.
func (s *Store) FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error) {
	key := textkey.Normalize(name)
	if key == "" {
		return nil, nil
	}

	ingredients, err := s.ListIngredients(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}
	for i := range ingredients {
		if textkey.Normalize(ingredients[i].Name) == key {
			return &ingredients[i], nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateIngredient(ctx context.Context, id uint, update IngredientUpdate) error {
	updates := map[string]any{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return fmt.Errorf("ingredient name is required")
		}
		updates["name"] = name
	}
	if update.Unit != nil {
		updates["unit"] = unitOrDefault(*update.Unit, models.DefaultIngredientUnit)
	}
	if update.UnitCost != nil {
		updates["unit_cost"] = *update.UnitCost
	}
	if update.Stock != nil {
		updates["stock"] = *update.Stock
	}
	if update.ManageStock != nil {
		updates["manage_stock"] = *update.ManageStock
	}
	if len(updates) == 0 {
		return nil
	}

	result := s.conn(ctx).Model(&models.Ingredient{}).Where("id = ?", id).Updates(updates)
	return notFoundIfNoRows("ingredient", id, result)
}

// AdjustIngredientStock adds delta to the stored stock in a single statement. Negative
// results are stored as-is.
func (s *Store) AdjustIngredientStock(ctx context.Context, id uint, delta float64) error {
	result := s.conn(ctx).Model(&models.Ingredient{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta))
	return notFoundIfNoRows("ingredient", id, result)
}

func (s *Store) DeactivateIngredient(ctx context.Context, id uint) error {
	result := s.conn(ctx).Model(&models.Ingredient{}).Where("id = ?", id).Update("active", false)
	return notFoundIfNoRows("ingredient", id, result)
}

// IngredientStock reads the current stock of one ingredient.
func (s *Store) IngredientStock(ctx context.Context, id uint) (float64, error) {
	var stock float64
	err := s.conn(ctx).Model(&models.Ingredient{}).Where("id = ?", id).Select("stock").Scan(&stock).Error
	if err != nil {
		return 0, fmt.Errorf("read stock of ingredient %d: %w", id, err)
	}
	return stock, nil
}
