// Package costing keeps each product's cost, profit and estimated stock consistent with
// its recipe lines and the ingredients they consume. Every mutation runs in one
// transaction together with the recomputation it triggers.
package costing

import (
	"context"
	"errors"
	"time"

	"mitsypos/internal/events"
	applog "mitsypos/internal/log"
	"mitsypos/internal/store"
	"mitsypos/models"
)

var (
	// ErrInvalidQuantity is returned when a caller-supplied quantity is out of range.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrEmptySale is returned when a sale request carries no items.
	ErrEmptySale = errors.New("sale has no items")
)

// Engine propagates derived product fields. It is safe to share between requests as long
// as the underlying store is.
type Engine struct {
	store     *store.Store
	publisher events.Publisher
	now       func() time.Time
}

type Option func(*Engine)

// WithPublisher sends product changes to p after each committed operation.
func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

// WithClock overrides the time source used to stamp sales.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func New(s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     s,
		publisher: events.Nop{},
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the store the engine writes to.
func (e *Engine) Store() *store.Store {
	return e.store
}

type changeSet struct {
	changes []events.ProductChange
}

func (c *changeSet) add(productID uint, reason string) {
	c.changes = append(c.changes, events.ProductChange{ProductID: productID, Reason: reason})
}

// run executes fn in a transaction and publishes the collected changes once it commits.
func (e *Engine) run(ctx context.Context, fn func(tx *store.Store, changes *changeSet) error) error {
	changes := &changeSet{}
	err := e.store.Transaction(ctx, func(tx *store.Store) error {
		return fn(tx, changes)
	})
	if err != nil {
		return err
	}

	if len(changes.changes) == 0 {
		return nil
	}
	deduped := events.Dedupe(changes.changes)
	if err := e.publisher.Publish(ctx, deduped); err != nil {
		applog.Error(ctx, "failed to publish product changes", "error", err, "count", len(deduped))
	}
	return nil
}

// activeProduct returns nil without error for products that are missing or deactivated,
// so late recompute triggers degrade to no-ops.
func activeProduct(ctx context.Context, s *store.Store, productID uint) (*models.Product, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			applog.Debug(ctx, "skipping recompute for missing product", "product_id", productID)
			return nil, nil
		}
		return nil, err
	}
	if !product.Active {
		applog.Debug(ctx, "skipping recompute for inactive product", "product_id", productID)
		return nil, nil
	}
	return product, nil
}
