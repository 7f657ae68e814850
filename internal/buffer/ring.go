// Package buffer provides the bounded FIFO backing the recent-message window
// shared between the poll and display loops.
package buffer

import "sync"

// DefaultCapacity matches the rolling window kept for bulk export and live
// notifications.
const DefaultCapacity = 60

// Ring is a bounded FIFO. Appending past capacity evicts the oldest item.
// Safe for one producer and one consumer on separate goroutines.
type Ring[T any] struct {
	mu       sync.Mutex
	capacity int
	items    []T
}

func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring[T]{capacity: capacity}
}

// Append adds an item, evicting the oldest when the ring is full.
func (r *Ring[T]) Append(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) >= r.capacity {
		r.items = r.items[1:]
	}
	r.items = append(r.items, item)
}

// Replace swaps the entire contents, keeping only the newest capacity items.
func (r *Ring[T]) Replace(items []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(items) > r.capacity {
		items = items[len(items)-r.capacity:]
	}
	r.items = append(r.items[:0:0], items...)
}

// Pop removes and returns the oldest item.
func (r *Ring[T]) Pop() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if len(r.items) == 0 {
		return zero, false
	}
	item := r.items[0]
	r.items = r.items[1:]
	return item, true
}

func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Snapshot returns a copy of the current contents, oldest first.
func (r *Ring[T]) Snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(r.items[:0:0], r.items...)
}
