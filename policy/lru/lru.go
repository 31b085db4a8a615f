// Package lru implements a fixed-capacity Least-Recently-Used store.
package lru

import (
	"fmt"
	"iter"

	"github.com/IvanBrykalov/adaptivecache/internal/arena"
	"github.com/IvanBrykalov/adaptivecache/policy"
)

// Store keeps entries in a recency list (head=MRU, tail=LRU) and a key
// index of arena handles. Get/Put/evict are O(1).
type Store[K comparable, V any] struct {
	capacity int
	index    map[K]int32
	nodes    *arena.Arena[K, V]
	list     *arena.List[K, V]
}

// New returns an empty store holding at most capacity entries.
func New[K comparable, V any](capacity int) (*Store[K, V], error) {
	if err := policy.CheckCapacity(capacity); err != nil {
		return nil, err
	}
	nodes := arena.New[K, V](min(capacity, policy.PreallocLimit))
	return &Store[K, V]{
		capacity: capacity,
		index:    make(map[K]int32, min(capacity, policy.PreallocLimit)),
		nodes:    nodes,
		list:     arena.NewList(nodes),
	}, nil
}

// Kind returns policy.LRU.
func (s *Store[K, V]) Kind() policy.Kind { return policy.LRU }

// Get returns the value for k and promotes it to MRU.
func (s *Store[K, V]) Get(k K) (V, bool) {
	h, ok := s.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	s.list.MoveToFront(h)
	return s.nodes.At(h).Value, true
}

// Put inserts or updates k→v as MRU. Inserting a new key into a full store
// first evicts the tail.
func (s *Store[K, V]) Put(k K, v V) (evicted policy.Entry[K, V], ok bool) {
	if h, found := s.index[k]; found {
		s.nodes.At(h).Value = v
		s.list.MoveToFront(h)
		return evicted, false
	}
	if len(s.index) >= s.capacity {
		evicted, ok = s.evictBack()
	}
	h := s.nodes.Alloc(k, v)
	s.list.PushFront(h)
	s.index[k] = h
	return evicted, ok
}

// Peek returns the value for k without touching recency.
func (s *Store[K, V]) Peek(k K) (V, bool) {
	h, ok := s.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return s.nodes.At(h).Value, true
}

// Contains reports whether k is resident.
func (s *Store[K, V]) Contains(k K) bool {
	_, ok := s.index[k]
	return ok
}

// Len returns the number of resident entries.
func (s *Store[K, V]) Len() int { return len(s.index) }

// Cap returns the capacity.
func (s *Store[K, V]) Cap() int { return s.capacity }

// All yields entries from MRU to LRU.
func (s *Store[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		s.list.Walk(func(h int32) bool {
			n := s.nodes.At(h)
			return yield(n.Key, n.Value)
		})
	}
}

// Validate checks that the index and the recency list agree.
func (s *Store[K, V]) Validate() error {
	if err := s.list.Check(); err != nil {
		return fmt.Errorf("lru: %w", err)
	}
	if s.list.Len() != len(s.index) || s.nodes.Live() != len(s.index) {
		return fmt.Errorf("lru: list=%d index=%d arena=%d", s.list.Len(), len(s.index), s.nodes.Live())
	}
	if len(s.index) > s.capacity {
		return fmt.Errorf("lru: %d entries exceed capacity %d", len(s.index), s.capacity)
	}
	var err error
	s.list.Walk(func(h int32) bool {
		k := s.nodes.At(h).Key
		if got, ok := s.index[k]; !ok || got != h {
			err = fmt.Errorf("lru: key %v indexed at %d, linked at %d", k, got, h)
			return false
		}
		return true
	})
	return err
}

// evictBack removes the LRU entry and returns it.
func (s *Store[K, V]) evictBack() (policy.Entry[K, V], bool) {
	h := s.list.Back()
	if h == arena.Nil {
		return policy.Entry[K, V]{}, false
	}
	n := s.nodes.At(h)
	e := policy.Entry[K, V]{Key: n.Key, Value: n.Value}
	s.list.Remove(h)
	delete(s.index, e.Key)
	s.nodes.Free(h)
	return e, true
}

// Compile-time check: ensure Store implements policy.Store.
var _ policy.Store[string, int] = (*Store[string, int])(nil)
