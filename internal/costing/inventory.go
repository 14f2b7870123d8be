package costing

import (
	"context"
	"fmt"

	"mitsypos/internal/events"
	applog "mitsypos/internal/log"
	"mitsypos/internal/store"
	"mitsypos/models"
)

// RestockIngredient adds quantity to an ingredient and refreshes the estimate of every
// active product that consumes it.
func (e *Engine) RestockIngredient(ctx context.Context, ingredientID uint, quantity float64) (*models.Ingredient, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("restock %v of ingredient %d: %w", quantity, ingredientID, ErrInvalidQuantity)
	}

	var ingredient *models.Ingredient
	err := e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		if err := tx.AdjustIngredientStock(ctx, ingredientID, quantity); err != nil {
			return err
		}
		if err := refreshDependents(ctx, tx, ingredientID, changes); err != nil {
			return err
		}

		var err error
		ingredient, err = tx.GetIngredient(ctx, ingredientID)
		return err
	})
	if err != nil {
		return nil, err
	}

	applog.Info(ctx, "ingredient restocked", "ingredient_id", ingredientID, "added", quantity, "stock", ingredient.Stock)
	return ingredient, nil
}

// UpdateIngredient applies a partial update. A stock change refreshes dependent estimates.
// A unit cost change does not touch product costs; those follow the next recipe change or
// an explicit RecomputeCost.
func (e *Engine) UpdateIngredient(ctx context.Context, ingredientID uint, update store.IngredientUpdate) (*models.Ingredient, error) {
	var ingredient *models.Ingredient
	err := e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		if err := tx.UpdateIngredient(ctx, ingredientID, update); err != nil {
			return err
		}
		if update.Stock != nil {
			if err := refreshDependents(ctx, tx, ingredientID, changes); err != nil {
				return err
			}
		}

		var err error
		ingredient, err = tx.GetIngredient(ctx, ingredientID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ingredient, nil
}

// DeactivateIngredient soft-deletes an ingredient. Its recipe lines drop out of every
// recipe, so dependent estimates are refreshed in the same transaction.
func (e *Engine) DeactivateIngredient(ctx context.Context, ingredientID uint) error {
	return e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		ids, err := tx.ProductIDsUsingIngredient(ctx, ingredientID)
		if err != nil {
			return err
		}
		if err := tx.DeactivateIngredient(ctx, ingredientID); err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := persistEstimate(ctx, tx, id, changes, events.ReasonStockChanged); err != nil {
				return err
			}
		}
		return nil
	})
}
