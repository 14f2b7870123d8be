// Package events announces changes to products' derived fields so that other
// consumers (displays, caches) can refresh.
package events

import (
	"context"
	"sync"
)

// Reasons a product's derived fields were refreshed.
const (
	ReasonRecipeChanged  = "recipe_changed"
	ReasonCostRecomputed = "cost_recomputed"
	ReasonStockChanged   = "stock_changed"
	ReasonSale           = "sale"
)

// ProductChange describes one refreshed product.
type ProductChange struct {
	ProductID uint   `json:"product_id"`
	Reason    string `json:"reason"`
}

// Publisher delivers product changes after the transaction that produced them commits.
type Publisher interface {
	Publish(ctx context.Context, changes []ProductChange) error
}

// Nop discards every change.
type Nop struct{}

func (Nop) Publish(context.Context, []ProductChange) error { return nil }

// Recorder keeps published changes in memory. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	changes []ProductChange
}

func (r *Recorder) Publish(_ context.Context, changes []ProductChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, changes...)
	return nil
}

// Changes returns a copy of everything published so far.
func (r *Recorder) Changes() []ProductChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ProductChange, len(r.changes))
	copy(out, r.changes)
	return out
}

// Dedupe drops repeated (product, reason) pairs while keeping the first-seen order.
func Dedupe(changes []ProductChange) []ProductChange {
	seen := make(map[ProductChange]struct{}, len(changes))
	out := make([]ProductChange, 0, len(changes))
	for _, change := range changes {
		if _, ok := seen[change]; ok {
			continue
		}
		seen[change] = struct{}{}
		out = append(out, change)
	}
	return out
}
