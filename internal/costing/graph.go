package costing

import (
	"context"

	"mitsypos/internal/store"
)

// RecipeLinesFor returns the live recipe of productID: one component per recipe line whose
// ingredient and product are active, ordered by line id. A product without lines yields an
// empty slice.
func (e *Engine) RecipeLinesFor(ctx context.Context, productID uint) ([]store.RecipeComponent, error) {
	return e.store.RecipeComponents(ctx, productID)
}
