// Package lfu implements a fixed-capacity Least-Frequently-Used store with
// O(1) operations.
//
// Entries are grouped into frequency buckets, each a list ordered by the
// time the entry reached that frequency (front=newest). A minFreq cursor
// names the lowest non-empty bucket; the victim is the back of that bucket,
// i.e. the oldest entry among those with the lowest frequency.
package lfu

import (
	"fmt"
	"iter"
	"slices"

	"github.com/IvanBrykalov/adaptivecache/internal/arena"
	"github.com/IvanBrykalov/adaptivecache/policy"
)

// Store is the LFU store. Frequencies are never decayed.
type Store[K comparable, V any] struct {
	capacity int
	index    map[K]int32
	nodes    *arena.Arena[K, V]
	buckets  map[uint64]*arena.List[K, V]
	minFreq  uint64 // 0 only while the store has never held an entry
}

// New returns an empty store holding at most capacity entries.
func New[K comparable, V any](capacity int) (*Store[K, V], error) {
	if err := policy.CheckCapacity(capacity); err != nil {
		return nil, err
	}
	return &Store[K, V]{
		capacity: capacity,
		index:    make(map[K]int32, min(capacity, policy.PreallocLimit)),
		nodes:    arena.New[K, V](min(capacity, policy.PreallocLimit)),
		buckets:  make(map[uint64]*arena.List[K, V]),
	}, nil
}

// Kind returns policy.LFU.
func (s *Store[K, V]) Kind() policy.Kind { return policy.LFU }

// Get returns the value for k and bumps its frequency.
func (s *Store[K, V]) Get(k K) (V, bool) {
	h, ok := s.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	s.bump(h)
	return s.nodes.At(h).Value, true
}

// Put updates k (bumping its frequency) or inserts it at frequency 1.
// Inserting into a full store first evicts the oldest entry of the
// minFreq bucket.
func (s *Store[K, V]) Put(k K, v V) (evicted policy.Entry[K, V], ok bool) {
	if h, found := s.index[k]; found {
		s.nodes.At(h).Value = v
		s.bump(h)
		return evicted, false
	}
	if len(s.index) >= s.capacity {
		evicted, ok = s.evictMin()
	}
	h := s.nodes.Alloc(k, v)
	s.nodes.At(h).Freq = 1
	s.bucket(1).PushFront(h)
	s.index[k] = h
	s.minFreq = 1
	return evicted, ok
}

// Peek returns the value for k without bumping its frequency.
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

// Frequency returns the access count of k.
func (s *Store[K, V]) Frequency(k K) (uint64, bool) {
	h, ok := s.index[k]
	if !ok {
		return 0, false
	}
	return s.nodes.At(h).Freq, true
}

// MinFrequency returns the lowest resident frequency, or 0 when empty.
func (s *Store[K, V]) MinFrequency() uint64 {
	if len(s.index) == 0 {
		return 0
	}
	return s.minFreq
}

// Len returns the number of resident entries.
func (s *Store[K, V]) Len() int { return len(s.index) }

// Cap returns the capacity.
func (s *Store[K, V]) Cap() int { return s.capacity }

// All yields entries by ascending frequency, newest first within a bucket.
// Sorting the bucket keys makes it O(n + b log b).
func (s *Store[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		freqs := make([]uint64, 0, len(s.buckets))
		for f := range s.buckets {
			freqs = append(freqs, f)
		}
		slices.Sort(freqs)
		for _, f := range freqs {
			stop := false
			s.buckets[f].Walk(func(h int32) bool {
				n := s.nodes.At(h)
				if !yield(n.Key, n.Value) {
					stop = true
				}
				return !stop
			})
			if stop {
				return
			}
		}
	}
}

// Validate checks bucket placement, the minFreq cursor and index agreement.
func (s *Store[K, V]) Validate() error {
	if len(s.index) > s.capacity {
		return fmt.Errorf("lfu: %d entries exceed capacity %d", len(s.index), s.capacity)
	}
	if s.nodes.Live() != len(s.index) {
		return fmt.Errorf("lfu: arena=%d index=%d", s.nodes.Live(), len(s.index))
	}
	total := 0
	lowest := uint64(0)
	for f, b := range s.buckets {
		if err := b.Check(); err != nil {
			return fmt.Errorf("lfu: bucket %d: %w", f, err)
		}
		if b.Len() == 0 {
			return fmt.Errorf("lfu: empty bucket %d not pruned", f)
		}
		if lowest == 0 || f < lowest {
			lowest = f
		}
		var err error
		b.Walk(func(h int32) bool {
			n := s.nodes.At(h)
			if n.Freq != f {
				err = fmt.Errorf("lfu: key %v has freq %d but sits in bucket %d", n.Key, n.Freq, f)
				return false
			}
			if got, ok := s.index[n.Key]; !ok || got != h {
				err = fmt.Errorf("lfu: key %v indexed at %d, linked at %d", n.Key, got, h)
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		total += b.Len()
	}
	if total != len(s.index) {
		return fmt.Errorf("lfu: buckets hold %d nodes, index has %d", total, len(s.index))
	}
	if total > 0 && s.minFreq != lowest {
		return fmt.Errorf("lfu: minFreq=%d, lowest bucket is %d", s.minFreq, lowest)
	}
	return nil
}

// bucket returns the list for freq, creating it if needed.
func (s *Store[K, V]) bucket(freq uint64) *arena.List[K, V] {
	b, ok := s.buckets[freq]
	if !ok {
		b = arena.NewList(s.nodes)
		s.buckets[freq] = b
	}
	return b
}

// bump moves h from its bucket to the front of the next one.
func (s *Store[K, V]) bump(h int32) {
	n := s.nodes.At(h)
	old := n.Freq
	b := s.buckets[old]
	b.Remove(h)
	if b.Len() == 0 {
		delete(s.buckets, old)
		if s.minFreq == old {
			s.minFreq = old + 1
		}
	}
	n.Freq = old + 1
	s.bucket(n.Freq).PushFront(h)
}

// evictMin removes the back of the minFreq bucket and returns it. minFreq
// may point at a pruned bucket afterwards; Put resets it to 1 right away.
func (s *Store[K, V]) evictMin() (policy.Entry[K, V], bool) {
	b, ok := s.buckets[s.minFreq]
	if !ok || b.Len() == 0 {
		return policy.Entry[K, V]{}, false
	}
	h := b.Back()
	n := s.nodes.At(h)
	e := policy.Entry[K, V]{Key: n.Key, Value: n.Value, Freq: n.Freq}
	b.Remove(h)
	if b.Len() == 0 {
		delete(s.buckets, s.minFreq)
	}
	delete(s.index, e.Key)
	s.nodes.Free(h)
	return e, true
}

// Compile-time check: ensure Store implements policy.Store.
var _ policy.Store[string, int] = (*Store[string, int])(nil)
