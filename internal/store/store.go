// Package store persists products, ingredients, recipe lines, sales, pending orders and
// settings. A Store is an explicit handle over a gorm connection or transaction.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by identifier matches no row.
var ErrNotFound = errors.New("record not found")

// Store wraps a gorm handle. The zero value is not usable; call New.
type Store struct {
	db *gorm.DB
}

// New returns a Store bound to db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to a single database transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	if s == nil || s.db == nil {
		return gorm.ErrInvalidDB
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// ListOptions filters list queries of soft-deleted entities.
type ListOptions struct {
	IncludeInactive bool
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func lookupError(kind string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("load %s %d: %w", kind, id, err)
}

func notFoundIfNoRows(kind string, id uint, result *gorm.DB) error {
	if result.Error != nil {
		return fmt.Errorf("update %s %d: %w", kind, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}
