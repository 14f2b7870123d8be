package store

import (
	"context"
	"fmt"
	"strings"

	"mitsypos/models"
)

// CreatePendingOrder opens a tab for a table. Total is derived from items.
func (s *Store) CreatePendingOrder(ctx context.Context, table string, items []models.OrderItem) (*models.PendingOrder, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, fmt.Errorf("table is required")
	}
	if items == nil {
		items = []models.OrderItem{}
	}

	order := models.PendingOrder{
		Table: table,
		Items: items,
		Total: models.ItemsTotal(items),
	}
	if err := s.conn(ctx).Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create pending order: %w", err)
	}
	return &order, nil
}

func (s *Store) GetPendingOrder(ctx context.Context, id uint) (*models.PendingOrder, error) {
	var order models.PendingOrder
	if err := s.conn(ctx).First(&order, id).Error; err != nil {
		return nil, lookupError("pending order", id, err)
	}
	return &order, nil
}

func (s *Store) ListPendingOrders(ctx context.Context) ([]models.PendingOrder, error) {
	var orders []models.PendingOrder
	if err := s.conn(ctx).Order("id asc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	return orders, nil
}

// UpdatePendingOrder replaces the items of an order and recomputes its total.
func (s *Store) UpdatePendingOrder(ctx context.Context, id uint, items []models.OrderItem) (*models.PendingOrder, error) {
	order, err := s.GetPendingOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.OrderItem{}
	}

	order.Items = items
	order.Total = models.ItemsTotal(items)
	if err := s.conn(ctx).Model(order).Select("items", "total").Updates(order).Error; err != nil {
		return nil, fmt.Errorf("update pending order %d: %w", id, err)
	}
	return order, nil
}

// DeletePendingOrder removes a closed tab.
func (s *Store) DeletePendingOrder(ctx context.Context, id uint) error {
	result := s.conn(ctx).Delete(&models.PendingOrder{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete pending order %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("pending order %d: %w", id, ErrNotFound)
	}
	return nil
}
