package costing

import (
	"context"
	"errors"
	"fmt"

	"mitsypos/internal/events"
	"mitsypos/internal/store"
	"mitsypos/models"
)

// AddRecipeLine attaches an ingredient portion to a product and refreshes the product's
// cost and estimate.
func (e *Engine) AddRecipeLine(ctx context.Context, input store.NewRecipeLine) (*models.RecipeLine, error) {
	if input.Quantity < 0 {
		return nil, fmt.Errorf("recipe quantity %v: %w", input.Quantity, ErrInvalidQuantity)
	}

	var line *models.RecipeLine
	err := e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		if err := requireLiveEnds(ctx, tx, input.ProductID, input.IngredientID); err != nil {
			return err
		}

		var err error
		line, err = tx.CreateRecipeLine(ctx, input)
		if err != nil {
			return err
		}
		return refreshProduct(ctx, tx, line.ProductID, changes)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateRecipeLine applies a partial update to a recipe line. When the line moves to
// another product both the previous and the new owner are refreshed.
func (e *Engine) UpdateRecipeLine(ctx context.Context, id uint, update store.RecipeLineUpdate) (*models.RecipeLine, error) {
	if update.Quantity != nil && *update.Quantity < 0 {
		return nil, fmt.Errorf("recipe quantity %v: %w", *update.Quantity, ErrInvalidQuantity)
	}

	var line *models.RecipeLine
	err := e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		previous, err := tx.GetRecipeLine(ctx, id)
		if err != nil {
			return err
		}

		productID := previous.ProductID
		if update.ProductID != nil {
			productID = *update.ProductID
		}
		ingredientID := previous.IngredientID
		if update.IngredientID != nil {
			ingredientID = *update.IngredientID
		}
		if productID != previous.ProductID || ingredientID != previous.IngredientID {
			if err := requireLiveEnds(ctx, tx, productID, ingredientID); err != nil {
				return err
			}
		}

		if err := tx.UpdateRecipeLine(ctx, id, update); err != nil {
			return err
		}
		line, err = tx.GetRecipeLine(ctx, id)
		if err != nil {
			return err
		}

		if previous.ProductID != line.ProductID {
			if err := refreshProduct(ctx, tx, previous.ProductID, changes); err != nil {
				return err
			}
		}
		return refreshProduct(ctx, tx, line.ProductID, changes)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// DeleteRecipeLine removes a recipe line and refreshes the product that owned it.
func (e *Engine) DeleteRecipeLine(ctx context.Context, id uint) error {
	return e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		line, err := tx.GetRecipeLine(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteRecipeLine(ctx, id); err != nil {
			return err
		}
		return refreshProduct(ctx, tx, line.ProductID, changes)
	})
}

func refreshProduct(ctx context.Context, s *store.Store, productID uint, changes *changeSet) error {
	changes.add(productID, events.ReasonRecipeChanged)
	if err := recomputeCost(ctx, s, productID, changes); err != nil {
		return err
	}
	_, err := persistEstimate(ctx, s, productID, changes, events.ReasonRecipeChanged)
	return err
}

// requireLiveEnds rejects recipe lines pointing at missing or inactive rows.
func requireLiveEnds(ctx context.Context, s *store.Store, productID, ingredientID uint) error {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.Active {
		return fmt.Errorf("product %d: %w", productID, store.ErrNotFound)
	}

	ingredient, err := s.GetIngredient(ctx, ingredientID)
	if err != nil {
		return err
	}
	if !ingredient.Active {
		return fmt.Errorf("ingredient %d: %w", ingredientID, store.ErrNotFound)
	}
	return nil
}

// IsNotFound reports whether err means a referenced row does not exist or is inactive.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
