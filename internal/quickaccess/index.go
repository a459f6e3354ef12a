// Package quickaccess keeps a small recency-ranked list of previously logged
// items for one-tap re-logging.
package quickaccess

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Naimy441/nutriuni/internal/clock"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/logger"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/storage"
)

type Option func(*Index)

func WithClock(c clock.Clock) Option {
	return func(x *Index) { x.clock = c }
}

// WithCapacity bounds the list. Values below 1 keep the default.
func WithCapacity(n int) Option {
	return func(x *Index) {
		if n > 0 {
			x.capacity = n
		}
	}
}

type Index struct {
	kv       storage.Provider
	clock    clock.Clock
	capacity int

	mu      sync.Mutex
	entries []models.QuickAccessEntry
	loaded  bool
}

func New(kv storage.Provider, opts ...Option) *Index {
	x := &Index{
		kv:       kv,
		clock:    clock.Real{},
		capacity: constants.QuickAccessCapacity,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

func (x *Index) Capacity() int {
	return x.capacity
}

// loadLocked reads the persisted list once. Unreadable data leaves an empty list.
func (x *Index) loadLocked(ctx context.Context) {
	if x.loaded {
		return
	}
	var entries []models.QuickAccessEntry
	err := storage.GetJSON(ctx, x.kv, constants.QuickAccessKey, &entries)
	switch {
	case err == nil:
		x.entries = entries
		x.loaded = true
	case errors.Is(err, storage.ErrNotFound):
		x.entries = nil
		x.loaded = true
	default:
		logger.Warn("Failed to load quick access items", "error", err)
		x.entries = nil
	}
}

// rank orders entries by most recent use, then by use count, and keeps the
// first capacity of them.
func rank(entries []models.QuickAccessEntry, capacity int) []models.QuickAccessEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].LastUsedAt != entries[j].LastUsedAt {
			return entries[i].LastUsedAt > entries[j].LastUsedAt
		}
		return entries[i].UseCount > entries[j].UseCount
	})
	if len(entries) > capacity {
		entries = entries[:capacity]
	}
	return entries
}

// commitLocked persists next and adopts it as the cached list on success.
func (x *Index) commitLocked(ctx context.Context, next []models.QuickAccessEntry) error {
	if next == nil {
		next = []models.QuickAccessEntry{}
	}
	if err := storage.SetJSON(ctx, x.kv, constants.QuickAccessKey, next); err != nil {
		return fmt.Errorf("failed to save quick access items: %w", err)
	}
	x.entries = next
	x.loaded = true
	return nil
}

// RecordUse refreshes the entry matching item's (name, restaurant) or adds a
// new one at the front.
func (x *Index) RecordUse(ctx context.Context, item models.TrackedItem) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.loadLocked(ctx)

	now := x.clock.Now().UnixMilli()
	next := make([]models.QuickAccessEntry, 0, len(x.entries)+1)
	found := false
	for _, e := range x.entries {
		if !found && e.Matches(item) {
			found = true
			e.LastUsedAt = now
			e.UseCount++
			e.NutritionValues = item.NutritionValues
			e.ServingSize = item.ServingSize
		}
		next = append(next, e)
	}
	if !found {
		entry := models.QuickAccessEntry{
			ID:              item.ID,
			Name:            item.Name,
			Restaurant:      item.Restaurant,
			NutritionValues: item.NutritionValues,
			ServingSize:     item.ServingSize,
			Type:            models.QuickAccessTypeFor(item.Restaurant),
			LastUsedAt:      now,
			UseCount:        1,
		}
		next = append([]models.QuickAccessEntry{entry}, next...)
	}

	return x.commitLocked(ctx, rank(next, x.capacity))
}

// Remove drops the entry with id. Unknown ids still persist the list.
func (x *Index) Remove(ctx context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.loadLocked(ctx)

	next := make([]models.QuickAccessEntry, 0, len(x.entries))
	for _, e := range x.entries {
		if e.ID != id {
			next = append(next, e)
		}
	}
	return x.commitLocked(ctx, next)
}

// ClearAll deletes the persisted list.
func (x *Index) ClearAll(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.kv.Delete(ctx, constants.QuickAccessKey); err != nil {
		return fmt.Errorf("failed to clear quick access items: %w", err)
	}
	x.entries = nil
	x.loaded = true
	return nil
}

// Entries returns a copy of the ranked list.
func (x *Index) Entries(ctx context.Context) []models.QuickAccessEntry {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.loadLocked(ctx)
	out := make([]models.QuickAccessEntry, len(x.entries))
	copy(out, x.entries)
	return out
}

func (x *Index) filter(ctx context.Context, typ constants.QuickAccessType) []models.QuickAccessEntry {
	var out []models.QuickAccessEntry
	for _, e := range x.Entries(ctx) {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// CustomMeals returns the user-authored entries in rank order.
func (x *Index) CustomMeals(ctx context.Context) []models.QuickAccessEntry {
	return x.filter(ctx, constants.QuickAccessCustom)
}

// RecentRestaurantItems returns the catalog-backed entries in rank order.
func (x *Index) RecentRestaurantItems(ctx context.Context) []models.QuickAccessEntry {
	return x.filter(ctx, constants.QuickAccessRestaurant)
}

// Find looks an entry up by id.
func (x *Index) Find(ctx context.Context, id string) (models.QuickAccessEntry, bool) {
	for _, e := range x.Entries(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return models.QuickAccessEntry{}, false
}
