// Package store provides the in-memory document store backing the EcoSort
// API: a generic, thread-safe collection type plus the typed MemoryStore
// holding all application records. Collections support CRUD, filtering,
// cursor pagination, and snapshot export/import for the admin surface.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Collection is a generic, thread-safe, in-memory document collection.
// T must be JSON-marshalable.
type Collection[T any] struct {
	mu      sync.RWMutex
	items   map[string]T
	order   []string // insertion order for deterministic listing
	prefix  string
	counter atomic.Uint64
}

// NewCollection creates an empty collection with the given ID prefix
// (e.g. "bin", "drop", "rwd").
func NewCollection[T any](prefix string) *Collection[T] {
	return &Collection[T]{
		items:  make(map[string]T),
		order:  make([]string, 0),
		prefix: prefix,
	}
}

// NextID generates a sequential ID of the form "{prefix}-{counter}",
// e.g. "bin-000001". Seed fixtures rely on these being deterministic.
func (c *Collection[T]) NextID() string {
	n := c.counter.Add(1)
	return fmt.Sprintf("%s-%06d", c.prefix, n)
}

// Set stores an item under id, preserving its position in insertion order
// when overwriting.
func (c *Collection[T]) Set(id string, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = item
}

// Get retrieves an item by ID.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// Delete removes an item by ID. Returns true if the item existed.
func (c *Collection[T]) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; !exists {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns all items in insertion order.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Count returns the number of items.
func (c *Collection[T]) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Filter returns items matching the predicate, in insertion order.
func (c *Collection[T]) Filter(pred func(id string, item T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, id := range c.order {
		if pred(id, c.items[id]) {
			out = append(out, c.items[id])
		}
	}
	return out
}

// FilterWithIDs returns matching items together with their IDs.
func (c *Collection[T]) FilterWithIDs(pred func(id string, item T) bool) ([]string, []T) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []string
	var items []T
	for _, id := range c.order {
		if pred(id, c.items[id]) {
			ids = append(ids, id)
			items = append(items, c.items[id])
		}
	}
	return ids, items
}

// Page is a cursor-paginated result set.
type Page[T any] struct {
	Data    []T    `json:"data"`
	HasMore bool   `json:"has_more"`
	Cursor  string `json:"cursor,omitempty"`
	Total   int    `json:"total"`
}

// Paginate returns one page of items. The cursor is the last ID seen; an
// empty cursor starts from the beginning. limit <= 0 returns everything.
func (c *Collection[T]) Paginate(cursor string, limit int) Page[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	start := 0
	if cursor != "" {
		for i, id := range c.order {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 {
		limit = len(c.order)
	}

	end := start + limit
	hasMore := false
	if end > len(c.order) {
		end = len(c.order)
	} else if end < len(c.order) {
		hasMore = true
	}

	data := make([]T, 0, end-start)
	var last string
	for i := start; i < end; i++ {
		data = append(data, c.items[c.order[i]])
		last = c.order[i]
	}

	return Page[T]{Data: data, HasMore: hasMore, Cursor: last, Total: len(c.order)}
}

// Reset clears all items and the ID counter.
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]T)
	c.order = c.order[:0]
	c.counter.Store(0)
}

// Snapshot returns all items keyed by ID.
func (c *Collection[T]) Snapshot() map[string]T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]T, len(c.items))
	for k, v := range c.items {
		out[k] = v
	}
	return out
}

// LoadSnapshot replaces all items. IDs are sorted so listing order is
// deterministic after an import, and the ID counter advances past the
// highest imported ID so NextID never reissues one.
func (c *Collection[T]) LoadSnapshot(snapshot map[string]T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]T, len(snapshot))
	c.order = make([]string, 0, len(snapshot))
	for k, v := range snapshot {
		c.items[k] = v
		c.order = append(c.order, k)

		var n uint64
		if _, err := fmt.Sscanf(k, c.prefix+"-%d", &n); err == nil && n > c.counter.Load() {
			c.counter.Store(n)
		}
	}
	sort.Strings(c.order)
}

// MarshalJSON serializes the collection as its items map.
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}

// UnmarshalJSON replaces the collection contents from an items map.
func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	var snapshot map[string]T
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return err
	}
	c.LoadSnapshot(snapshot)
	return nil
}

// Clock is an offset-adjustable clock. Time-window aggregation and the
// admin control plane share one instance so tests can advance time without
// sleeping.
type Clock struct {
	mu     sync.RWMutex
	offset time.Duration
}

// NewClock creates a clock with no offset.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current (possibly offset) time.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Now().Add(c.offset)
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += d
}

// Reset zeroes the clock offset.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = 0
}

// Offset returns the current offset.
func (c *Clock) Offset() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}
