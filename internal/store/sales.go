package store

import (
	"context"
	"fmt"
	"time"

	"mitsypos/models"
)

// SaleFilter narrows ListSales. Zero values match everything.
type SaleFilter struct {
	Number int
	Since  time.Time
	Until  time.Time
}

func (s *Store) CreateSale(ctx context.Context, sale *models.Sale) error {
	if sale.SoldAt.IsZero() {
		sale.SoldAt = time.Now().UTC()
	}
	if sale.PaymentMethod == "" {
		sale.PaymentMethod = models.DefaultPaymentMethod
	}
	if err := s.conn(ctx).Create(sale).Error; err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// ListSales returns sale lines ordered by number and id.
func (s *Store) ListSales(ctx context.Context, filter SaleFilter) ([]models.Sale, error) {
	query := s.conn(ctx).Order("number asc, id asc")
	if filter.Number > 0 {
		query = query.Where("number = ?", filter.Number)
	}
	if !filter.Since.IsZero() {
		query = query.Where("sold_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		query = query.Where("sold_at < ?", filter.Until)
	}

	var sales []models.Sale
	if err := query.Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}
