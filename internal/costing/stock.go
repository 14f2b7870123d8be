package costing

import (
	"context"
	"math"

	"mitsypos/internal/events"
	applog "mitsypos/internal/log"
	"mitsypos/internal/store"
)

// Capacity is the number of product units the ingredient stock can support: the floor of
// the smallest stock/quantity ratio, saturated at the int range. Lines requiring zero (or
// less) are ignored; when no line remains the capacity is 0.
func Capacity(lines []store.RecipeComponent) int {
	bottleneck := math.Inf(1)
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if ratio := line.Stock / line.Quantity; ratio < bottleneck {
			bottleneck = ratio
		}
	}
	if math.IsInf(bottleneck, 1) {
		return 0
	}
	return clampToInt(math.Floor(bottleneck))
}

// clampToInt converts f, saturating at the int range.
func clampToInt(f float64) int {
	switch {
	case f >= float64(math.MaxInt):
		return math.MaxInt
	case f <= float64(math.MinInt):
		return math.MinInt
	}
	return int(f)
}

// EstimateStock computes, without persisting, how many units of productID can be sold.
func (e *Engine) EstimateStock(ctx context.Context, productID uint) (int, error) {
	lines, err := e.store.RecipeComponents(ctx, productID)
	if err != nil {
		return 0, err
	}
	return Capacity(lines), nil
}

// PersistEstimate stores the current estimate on the product and returns it. Missing or
// inactive products are left untouched and report 0.
func (e *Engine) PersistEstimate(ctx context.Context, productID uint) (int, error) {
	var estimate int
	err := e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		var err error
		estimate, err = persistEstimate(ctx, tx, productID, changes, events.ReasonStockChanged)
		return err
	})
	return estimate, err
}

// RecomputeAllEstimates refreshes every active product with stock management enabled and
// returns how many were refreshed.
func (e *Engine) RecomputeAllEstimates(ctx context.Context) (int, error) {
	refreshed := 0
	err := e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		refreshed = 0
		ids, err := tx.StockManagedProductIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := persistEstimate(ctx, tx, id, changes, events.ReasonStockChanged); err != nil {
				return err
			}
			refreshed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	applog.Info(ctx, "estimated stock recomputed", "products", refreshed)
	return refreshed, nil
}

func persistEstimate(ctx context.Context, s *store.Store, productID uint, changes *changeSet, reason string) (int, error) {
	product, err := activeProduct(ctx, s, productID)
	if err != nil || product == nil {
		return 0, err
	}

	lines, err := s.RecipeComponents(ctx, productID)
	if err != nil {
		return 0, err
	}

	estimate := Capacity(lines)
	if err := s.SetEstimatedStock(ctx, productID, estimate); err != nil {
		return 0, err
	}
	changes.add(productID, reason)
	applog.Debug(ctx, "estimated stock persisted", "product_id", productID, "estimate", estimate, "previous", product.EstimatedStock)
	return estimate, nil
}

// refreshDependents persists the estimate of every active product that uses ingredientID.
func refreshDependents(ctx context.Context, s *store.Store, ingredientID uint, changes *changeSet) error {
	ids, err := s.ProductIDsUsingIngredient(ctx, ingredientID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := persistEstimate(ctx, s, id, changes, events.ReasonStockChanged); err != nil {
			return err
		}
	}
	return nil
}
