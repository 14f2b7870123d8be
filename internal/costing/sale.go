package costing

import (
	"context"
	"fmt"
	"strings"

	"mitsypos/internal/events"
	applog "mitsypos/internal/log"
	"mitsypos/internal/store"
	"mitsypos/models"
)

// SaleItem is one product line of a checkout.
type SaleItem struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// SaleRequest describes a checkout. Tip is stored once, on the first sale row.
type SaleRequest struct {
	Items         []SaleItem `json:"items"`
	PaymentMethod string     `json:"payment_method"`
	Table         string     `json:"table"`
	Tip           float64    `json:"tip"`
}

// Receipt is the outcome of a recorded checkout.
type Receipt struct {
	Number int           `json:"number"`
	Lines  []models.Sale `json:"lines"`
	Total  float64       `json:"total"`
	Tip    float64       `json:"tip"`
}

// ApplySale deducts quantity units of productID from the stock of every ingredient in its
// live recipe and refreshes the product's estimate. Stock may go negative. Quantities are
// validated by RecordSale, not here.
func (e *Engine) ApplySale(ctx context.Context, productID uint, quantity float64) error {
	return e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		return applySale(ctx, tx, productID, quantity, changes)
	})
}

func applySale(ctx context.Context, s *store.Store, productID uint, quantity float64, changes *changeSet) error {
	lines, err := s.RecipeComponents(ctx, productID)
	if err != nil {
		return err
	}

	for _, line := range lines {
		used := line.Quantity * quantity
		if used == 0 {
			continue
		}
		if err := s.AdjustIngredientStock(ctx, line.IngredientID, -used); err != nil {
			return err
		}
		stock, err := s.IngredientStock(ctx, line.IngredientID)
		if err != nil {
			return err
		}
		if stock < 0 {
			applog.Warn(ctx, "ingredient stock below zero",
				"ingredient_id", line.IngredientID,
				"ingredient", line.IngredientName,
				"stock", stock,
				"product_id", productID,
			)
		}
	}

	_, err = persistEstimate(ctx, s, productID, changes, events.ReasonSale)
	return err
}

// RecordSale stores a checkout under the next sale number. Ingredient stock is deducted
// only while stock management is enabled globally and on the sold product.
func (e *Engine) RecordSale(ctx context.Context, req SaleRequest) (*Receipt, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptySale
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("sell %v units of product %d: %w", item.Quantity, item.ProductID, ErrInvalidQuantity)
		}
	}

	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = models.DefaultPaymentMethod
	}
	soldAt := e.now()

	var receipt *Receipt
	err := e.run(ctx, func(tx *store.Store, changes *changeSet) error {
		deduct, err := tx.StockManagementEnabled(ctx)
		if err != nil {
			return err
		}

		number, err := tx.NextSaleNumber(ctx)
		if err != nil {
			return err
		}

		receipt = &Receipt{Number: number, Tip: req.Tip, Lines: make([]models.Sale, 0, len(req.Items))}
		for i, item := range req.Items {
			product, err := tx.GetProduct(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if !product.Active {
				return fmt.Errorf("product %d: %w", product.ID, store.ErrNotFound)
			}

			productID := product.ID
			sale := models.Sale{
				Number:        number,
				SoldAt:        soldAt,
				ProductName:   product.Name,
				ProductID:     &productID,
				Quantity:      item.Quantity,
				UnitPrice:     product.Price,
				Total:         product.Price * item.Quantity,
				PaymentMethod: method,
				Table:         strings.TrimSpace(req.Table),
			}
			if i == 0 {
				sale.Tip = req.Tip
			}
			if err := tx.CreateSale(ctx, &sale); err != nil {
				return err
			}
			receipt.Lines = append(receipt.Lines, sale)
			receipt.Total += sale.Total

			if deduct && product.ManageStock {
				if err := applySale(ctx, tx, product.ID, item.Quantity, changes); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	applog.Info(ctx, "sale recorded",
		"number", receipt.Number,
		"lines", len(receipt.Lines),
		"total", receipt.Total,
	)
	return receipt, nil
}
