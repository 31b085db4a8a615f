package cache

import (
	"iter"
	"maps"
	"sync"
)

// BackingStore is the write-through target for evicted and flushed entries.
type BackingStore[K comparable, V any] interface {
	// Record inserts or overwrites k→v.
	Record(k K, v V)
}

// MemoryStore is an unbounded map-backed BackingStore. Record is called by
// the engine under its lock; the read methods may be used concurrently
// from other goroutines.
type MemoryStore[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// NewMemoryStore returns an empty store.
func NewMemoryStore[K comparable, V any]() *MemoryStore[K, V] {
	return &MemoryStore[K, V]{m: make(map[K]V)}
}

// Record inserts or overwrites k→v.
func (s *MemoryStore[K, V]) Record(k K, v V) {
	s.mu.Lock()
	s.m[k] = v
	s.mu.Unlock()
}

// Get returns the last value recorded for k.
func (s *MemoryStore[K, V]) Get(k K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[k]
	return v, ok
}

// Len returns the number of recorded keys.
func (s *MemoryStore[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// All yields a snapshot of the store in unspecified order.
func (s *MemoryStore[K, V]) All() iter.Seq2[K, V] {
	s.mu.RLock()
	snap := maps.Clone(s.m)
	s.mu.RUnlock()
	return maps.All(snap)
}

// Compile-time check: ensure MemoryStore implements BackingStore.
var _ BackingStore[string, int] = (*MemoryStore[string, int])(nil)
