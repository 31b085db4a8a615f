package cache

import (
	"errors"

	"github.com/IvanBrykalov/adaptivecache/policy"
)

// shadow runs every operation against all policy stores so each one's
// state and counters reflect the full history. Only the active store's
// result reaches the caller; the rest is bookkeeping.
type shadow[K comparable, V any] struct {
	stores   [policy.NumKinds]policy.Store[K, V]
	counters [policy.NumKinds]Counters
	ops      uint64
	obs      Observer
}

// putResult is the active store's view of a Put.
type putResult[K comparable, V any] struct {
	hit     bool
	evicted policy.Entry[K, V]
	ok      bool // evicted is set
}

func (s *shadow[K, V]) get(k K, active policy.Kind) (V, bool) {
	s.ops++
	var (
		val V
		hit bool
	)
	for i, st := range s.stores {
		kind := policy.Kind(i)
		v, ok := st.Get(k)
		s.counters[kind].record(ok)
		s.obs.Access(kind, ok)
		if kind == active {
			val, hit = v, ok
		}
	}
	return val, hit
}

func (s *shadow[K, V]) put(k K, v V, active policy.Kind) putResult[K, V] {
	s.ops++
	var res putResult[K, V]
	for i, st := range s.stores {
		kind := policy.Kind(i)
		hit := st.Contains(k)
		ev, ok := st.Put(k, v)
		s.counters[kind].record(hit)
		s.obs.Access(kind, hit)
		if ok {
			s.counters[kind].Evictions++
			s.obs.Evict(kind)
		}
		if kind == active {
			res = putResult[K, V]{hit: hit, evicted: ev, ok: ok}
		}
	}
	return res
}

func (s *shadow[K, V]) store(kind policy.Kind) policy.Store[K, V] { return s.stores[kind] }

// validate runs every store's own invariant check.
func (s *shadow[K, V]) validate() error {
	var errs []error
	for _, st := range s.stores {
		errs = append(errs, st.Validate())
	}
	return errors.Join(errs...)
}
