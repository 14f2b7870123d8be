package costing

import (
	"context"

	"mitsypos/internal/events"
	applog "mitsypos/internal/log"
	"mitsypos/internal/store"
)

// TotalCost sums quantity times unit cost over lines. ok is false for an empty recipe.
func TotalCost(lines []store.RecipeComponent) (total float64, ok bool) {
	if len(lines) == 0 {
		return 0, false
	}
	for _, line := range lines {
		total += line.Quantity * line.UnitCost
	}
	return total, true
}

// RecomputeCost rewrites cost and profit of productID from its current recipe. A product
// without recipe lines keeps its stored cost.
func (e *Engine) RecomputeCost(ctx context.Context, productID uint) error {
	return e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		return recomputeCost(ctx, tx, productID, changes)
	})
}

func recomputeCost(ctx context.Context, s *store.Store, productID uint, changes *changeSet) error {
	product, err := activeProduct(ctx, s, productID)
	if err != nil || product == nil {
		return err
	}

	lines, err := s.RecipeComponents(ctx, productID)
	if err != nil {
		return err
	}

	total, ok := TotalCost(lines)
	if !ok {
		applog.Debug(ctx, "product has no recipe, keeping stored cost", "product_id", productID, "cost", product.Cost)
		return nil
	}

	if err := s.SetProductCost(ctx, productID, total); err != nil {
		return err
	}
	changes.add(productID, events.ReasonCostRecomputed)
	applog.Debug(ctx, "product cost recomputed",
		"product_id", productID,
		"cost", total,
		"profit", product.Price-total,
		"lines", len(lines),
	)
	return nil
}
