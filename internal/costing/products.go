package costing

import (
	"context"

	"mitsypos/internal/store"
	"mitsypos/models"
)

// UpdateProduct applies a partial product update. A manual cost only sticks on products
// without a live recipe; otherwise the cost is recomputed from the recipe in the same
// transaction.
func (e *Engine) UpdateProduct(ctx context.Context, productID uint, update store.ProductUpdate) (*models.Product, error) {
	var product *models.Product
	err := e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		if err := tx.UpdateProduct(ctx, productID, update); err != nil {
			return err
		}
		if update.Cost != nil {
			if err := recomputeCost(ctx, tx, productID, changes); err != nil {
				return err
			}
		}

		var err error
		product, err = tx.GetProduct(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}
