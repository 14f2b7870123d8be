package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"mitsypos/internal/textkey"
	"mitsypos/models"
)

// NewProduct carries the caller-provided fields of a product. Profit is derived.
type NewProduct struct {
	Name         string
	Price        float64
	Cost         float64
	Unit         string
	ManageStock  bool
	MinimumStock float64
	Image        string
}

// ProductUpdate is a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name         *string
	Price        *float64
	Cost         *float64
	Unit         *string
	ManageStock  *bool
	MinimumStock *float64
	Image        *string
}

func (u ProductUpdate) empty() bool {
	return u.Name == nil && u.Price == nil && u.Cost == nil && u.Unit == nil &&
		u.ManageStock == nil && u.MinimumStock == nil && u.Image == nil
}

// CreateProduct inserts an active product with profit = price - cost.
func (s *Store) CreateProduct(ctx context.Context, input NewProduct) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}

	product := models.Product{
		Name:         name,
		Price:        input.Price,
		Cost:         input.Cost,
		Profit:       input.Price - input.Cost,
		Unit:         unitOrDefault(input.Unit, models.DefaultProductUnit),
		ManageStock:  input.ManageStock,
		MinimumStock: input.MinimumStock,
		Image:        strings.TrimSpace(input.Image),
		Active:       true,
	}
	if err := s.conn(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

// GetProduct loads a product by id regardless of its active flag.
func (s *Store) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.conn(ctx).First(&product, id).Error; err != nil {
		return nil, lookupError("product", id, err)
	}
	return &product, nil
}

// ListProducts returns products ordered by id.
func (s *Store) ListProducts(ctx context.Context, opts ListOptions) ([]models.Product, error) {
	query := s.conn(ctx).Order("id asc")
	if !opts.IncludeInactive {
		query = query.Where("active = ?", true)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// SearchProducts returns active products whose name contains query, ignoring case and accents.
func (s *Store) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	products, err := s.ListProducts(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}

	matches := make([]models.Product, 0, len(products))
	for _, product := range products {
		if textkey.Contains(product.Name, query) {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

// UpdateProduct applies a partial update. When price or cost changes, profit is
// rewritten in the same statement.
func (s *Store) UpdateProduct(ctx context.Context, id uint, update ProductUpdate) error {
	if update.empty() {
		return nil
	}

	updates := map[string]any{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return fmt.Errorf("product name is required")
		}
		updates["name"] = name
	}
	if update.Unit != nil {
		updates["unit"] = unitOrDefault(*update.Unit, models.DefaultProductUnit)
	}
	if update.ManageStock != nil {
		updates["manage_stock"] = *update.ManageStock
	}
	if update.MinimumStock != nil {
		updates["minimum_stock"] = *update.MinimumStock
	}
	if update.Image != nil {
		updates["image"] = strings.TrimSpace(*update.Image)
	}

	switch {
	case update.Price != nil && update.Cost != nil:
		updates["price"] = *update.Price
		updates["cost"] = *update.Cost
		updates["profit"] = *update.Price - *update.Cost
	case update.Price != nil:
		updates["price"] = *update.Price
		updates["profit"] = gorm.Expr("? - cost", *update.Price)
	case update.Cost != nil:
		updates["cost"] = *update.Cost
		updates["profit"] = gorm.Expr("price - ?", *update.Cost)
	}

	result := s.conn(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	return notFoundIfNoRows("product", id, result)
}

// SetProductCost stores a derived cost and the matching profit in one statement.
func (s *Store) SetProductCost(ctx context.Context, id uint, cost float64) error {
	result := s.conn(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
		"cost":   cost,
		"profit": gorm.Expr("price - ?", cost),
	})
	return notFoundIfNoRows("product", id, result)
}

// SetEstimatedStock stores a derived sellable quantity.
func (s *Store) SetEstimatedStock(ctx context.Context, id uint, estimate int) error {
	result := s.conn(ctx).Model(&models.Product{}).Where("id = ?", id).Update("estimated_stock", estimate)
	return notFoundIfNoRows("product", id, result)
}

// DeactivateProduct soft-deletes a product.
func (s *Store) DeactivateProduct(ctx context.Context, id uint) error {
	result := s.conn(ctx).Model(&models.Product{}).Where("id = ?", id).Update("active", false)
	return notFoundIfNoRows("product", id, result)
}

// StockManagedProductIDs lists active products that opted into stock management.
func (s *Store) StockManagedProductIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := s.conn(ctx).Model(&models.Product{}).
		Where("manage_stock = ? AND active = ?", true, true).
		Order("id asc").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list stock managed products: %w", err)
	}
	return ids, nil
}

// ProductIDsUsingIngredient lists the active products with a recipe line on ingredientID.
func (s *Store) ProductIDsUsingIngredient(ctx context.Context, ingredientID uint) ([]uint, error) {
	var ids []uint
	err := s.conn(ctx).Model(&models.RecipeLine{}).
		Distinct().
		Joins("JOIN products ON products.id = recipe_lines.product_id").
		Where("recipe_lines.ingredient_id = ? AND products.active = ?", ingredientID, true).
		Order("recipe_lines.product_id asc").
		Pluck("recipe_lines.product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list products using ingredient %d: %w", ingredientID, err)
	}
	return ids, nil
}

func unitOrDefault(unit, fallback string) string {
	trimmed := strings.TrimSpace(unit)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
