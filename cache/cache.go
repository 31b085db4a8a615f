package cache

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync"

	"github.com/IvanBrykalov/adaptivecache/internal/assert"
	"github.com/IvanBrykalov/adaptivecache/policy"
	"github.com/IvanBrykalov/adaptivecache/policy/lfu"
	"github.com/IvanBrykalov/adaptivecache/policy/lru"
)

// ErrInvalidCapacity is returned by New when Options.Capacity < 1.
const ErrInvalidCapacity = policy.ErrInvalidCapacity

// ErrInvalidPolicy is returned by New for an undefined InitialPolicy.
var ErrInvalidPolicy = errors.New("cache: invalid initial policy")

// cache is the engine: both policy stores, the switcher and the
// caller-visible metrics behind one mutex.
type cache[K comparable, V any] struct {
	mu   sync.Mutex
	sh   shadow[K, V]
	sw   switcher
	perf performance

	opt Options[K, V]
	log *slog.Logger
}

// New constructs an engine with the provided Options.
// It fails with ErrInvalidCapacity or ErrInvalidPolicy; nothing is
// allocated in that case.
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if err := policy.CheckCapacity(opt.Capacity); err != nil {
		return nil, err
	}
	if !opt.InitialPolicy.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, opt.InitialPolicy)
	}
	if opt.SwitchEvery == 0 {
		opt.SwitchEvery = DefaultSwitchEvery
	}
	if opt.Backing == nil {
		opt.Backing = NewMemoryStore[K, V]()
	}
	if opt.Observer == nil {
		opt.Observer = NoopObserver{}
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}

	lruStore, err := lru.New[K, V](opt.Capacity)
	if err != nil {
		return nil, err
	}
	lfuStore, err := lfu.New[K, V](opt.Capacity)
	if err != nil {
		return nil, err
	}

	c := &cache[K, V]{
		sw:  switcher{every: opt.SwitchEvery, active: opt.InitialPolicy},
		opt: opt,
		log: opt.Logger.With(slog.Int("capacity", opt.Capacity)),
	}
	c.sh.stores[policy.LRU] = lruStore
	c.sh.stores[policy.LFU] = lfuStore
	c.sh.obs = opt.Observer
	return c, nil
}

// ---- Cache[K,V] implementation ----

// Get returns the active policy's value for k.
func (c *cache[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.sh.get(k, c.sw.active)
	c.perf.record(ok, false)
	c.afterOpLocked()
	return v, ok
}

// Put upserts k→v in every store and writes the active store's victim
// (if any) through to the backing store.
func (c *cache[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.sh.put(k, v, c.sw.active)
	if res.ok {
		c.opt.Backing.Record(res.evicted.Key, res.evicted.Value)
		if cb := c.opt.OnEvict; cb != nil {
			cb(res.evicted.Key, res.evicted.Value)
		}
	}
	c.perf.record(res.hit, res.ok)
	c.opt.Observer.Size(c.sh.store(c.sw.active).Len())
	c.afterOpLocked()
}

// FlushToMemory copies the active store into the backing store.
func (c *cache[K, V]) FlushToMemory() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, v := range c.sh.store(c.sw.active).All() {
		c.opt.Backing.Record(k, v)
		n++
	}
	c.log.Debug("flushed to backing store", slog.Int("entries", n), slog.String("policy", c.sw.active.String()))
}

// Metrics returns the caller-visible report.
func (c *cache[K, V]) Metrics() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perf.report()
}

// ActivePolicy returns the policy serving results.
func (c *cache[K, V]) ActivePolicy() policy.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sw.active
}

// SwitchLog returns a copy of the switch log.
func (c *cache[K, V]) SwitchLog() []Switch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sw.log)
}

// Counters returns the tallies for p (zero value for an undefined kind).
func (c *cache[K, V]) Counters(p policy.Kind) Counters {
	if !p.Valid() {
		return Counters{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sh.counters[p]
}

// Operations returns the operation count.
func (c *cache[K, V]) Operations() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sh.ops
}

// Len returns the active store's size.
func (c *cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sh.store(c.sw.active).Len()
}

// Capacity returns the per-store limit.
func (c *cache[K, V]) Capacity() int { return c.opt.Capacity }

// All copies the active store under the lock, then yields without it, so
// the loop body may call back into the cache.
func (c *cache[K, V]) All() iter.Seq2[K, V] {
	c.mu.Lock()
	st := c.sh.store(c.sw.active)
	entries := make([]policy.Entry[K, V], 0, st.Len())
	for k, v := range st.All() {
		entries = append(entries, policy.Entry[K, V]{Key: k, Value: v})
	}
	c.mu.Unlock()

	return func(yield func(K, V) bool) {
		for _, e := range entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Backing returns the write-through store.
func (c *cache[K, V]) Backing() BackingStore[K, V] { return c.opt.Backing }

// ---- helpers (mu held) ----

// afterOpLocked evaluates the switcher and, in debug builds, re-checks
// every store invariant.
func (c *cache[K, V]) afterOpLocked() {
	if sw, ok := c.sw.evaluate(c.sh.ops, c.sh.counters); ok {
		c.opt.Observer.Switch(sw.From, sw.To)
		c.opt.Observer.Size(c.sh.store(sw.To).Len())
		c.log.Info("eviction policy switched",
			slog.Uint64("op", sw.Op),
			slog.String("from", sw.From.String()),
			slog.String("to", sw.To.String()),
			slog.Float64("lru_hit_rate", c.sh.counters[policy.LRU].HitRate()),
			slog.Float64("lfu_hit_rate", c.sh.counters[policy.LFU].HitRate()),
		)
	}
	if assert.Enabled {
		assert.NoError(c.sh.validate())
	}
}
