package cache

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/adaptivecache/policy"
)

func newCache(t *testing.T, opt Options[int, string]) *cache[int, string] {
	t.Helper()
	c, err := New[int, string](opt)
	require.NoError(t, err)
	return c.(*cache[int, string])
}

func TestNew_InvalidOptions(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{-1, 0} {
		c, err := New[int, int](Options[int, int]{Capacity: capacity})
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	}

	c, err := New[int, int](Options[int, int]{Capacity: 1, InitialPolicy: policy.Kind(9)})
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestNew_CapacityBounds(t *testing.T) {
	t.Parallel()

	c, err := New[int, int](Options[int, int]{Capacity: math.MaxInt})
	if math.MaxInt > policy.MaximumCapacity {
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	}

	// The largest accepted capacity reserves only a bounded prefix.
	c, err = New[int, int](Options[int, int]{Capacity: policy.MaximumCapacity})
	require.NoError(t, err)
	c.Put(1, 10)
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, policy.MaximumCapacity, c.Capacity())
}

type sizeRecorder struct {
	NoopObserver
	sizes []int
}

func (r *sizeRecorder) Size(n int) { r.sizes = append(r.sizes, n) }

// The size gauge is refreshed on a switch, not only after a Put.
func TestCache_SizeReportedOnSwitch(t *testing.T) {
	t.Parallel()

	rec := &sizeRecorder{}
	c := newCache(t, Options[int, string]{Capacity: 2, SwitchEvery: 10, Observer: rec})
	for _, k := range []int{1, 2} {
		c.Put(k, "v")
	}
	c.Get(1)
	c.Get(2)
	c.Put(10, "x")
	c.Get(1)
	c.Put(11, "y")
	c.Get(2)
	c.Put(12, "z")
	require.Len(t, rec.sizes, 5, "one per Put")

	c.Get(1) // op 10: LFU takes over
	require.Equal(t, policy.LFU, c.ActivePolicy())
	assert.Equal(t, []int{1, 2, 2, 2, 2, 2}, rec.sizes)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	c := newCache(t, Options[int, string]{Capacity: 4})
	assert.Equal(t, policy.LRU, c.ActivePolicy())
	assert.Equal(t, uint64(DefaultSwitchEvery), c.sw.every)
	assert.Equal(t, 4, c.Capacity())
	assert.IsType(t, &MemoryStore[int, string]{}, c.Backing())
	assert.Empty(t, c.SwitchLog())
	assert.Equal(t, Report{}, c.Metrics())
}

// capacity=2; put 1, put 2, get 1, put 3 => LRU evicts 2.
func TestCache_LRUScenario(t *testing.T) {
	t.Parallel()

	c := newCache(t, Options[int, string]{Capacity: 2, InitialPolicy: policy.LRU})
	c.Put(1, "a")
	c.Put(2, "b")
	_, ok := c.Get(1)
	require.True(t, ok)
	c.Put(3, "c")

	_, ok = c.Get(2)
	assert.False(t, ok, "2 must be evicted")
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	v, ok = c.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	got, ok := c.Backing().(*MemoryStore[int, string]).Get(2)
	require.True(t, ok, "evicted key must be written through")
	assert.Equal(t, "b", got)
}

// capacity=2; put 1, put 2, get 1, put 3 => LFU evicts 2 (lowest frequency).
func TestCache_LFUScenario(t *testing.T) {
	t.Parallel()

	c := newCache(t, Options[int, string]{Capacity: 2, InitialPolicy: policy.LFU})
	c.Put(1, "a")
	c.Put(2, "b")
	c.Get(1)
	c.Put(3, "c")

	_, ok := c.Get(2)
	assert.False(t, ok)
	v, _ := c.Get(1)
	assert.Equal(t, "a", v)
	v, _ = c.Get(3)
	assert.Equal(t, "c", v)
}

// The two policies disagree on the victim; only the active one decides
// what callers see, but both stay populated.
func TestCache_ShadowStoreDivergence(t *testing.T) {
	t.Parallel()

	c := newCache(t, Options[int, string]{Capacity: 2, InitialPolicy: policy.LRU})
	c.Put(1, "a")
	c.Get(1)
	c.Get(1)
	c.Put(2, "b")
	c.Get(2)
	c.Put(3, "c") // LRU evicts 1, LFU evicts 2 (freq 2 < 3)

	assert.False(t, c.sh.store(policy.LRU).Contains(1))
	assert.True(t, c.sh.store(policy.LRU).Contains(2))
	assert.True(t, c.sh.store(policy.LFU).Contains(1))
	assert.False(t, c.sh.store(policy.LFU).Contains(2))

	_, ok := c.Get(1)
	assert.False(t, ok, "LRU is active, so 1 is a miss")

	v, _ := c.Backing().(*MemoryStore[int, string]).Get(1)
	assert.Equal(t, "a", v, "only the active victim is written through")
	_, ok = c.Backing().(*MemoryStore[int, string]).Get(2)
	assert.False(t, ok, "shadow evictions never reach the backing store")
}

func TestCache_RoundTripBothPolicies(t *testing.T) {
	t.Parallel()

	for _, p := range []policy.Kind{policy.LRU, policy.LFU} {
		t.Run(p.String(), func(t *testing.T) {
			t.Parallel()
			c := newCache(t, Options[int, string]{Capacity: 3, InitialPolicy: p})
			for i := 0; i < 10; i++ {
				c.Put(i, "v")
				v, ok := c.Get(i)
				require.True(t, ok)
				require.Equal(t, "v", v)
			}
		})
	}
}

func TestCache_CapacityAndEvictionCount(t *testing.T) {
	t.Parallel()

	var evicted []int
	c := newCache(t, Options[int, string]{
		Capacity: 4,
		OnEvict:  func(k int, _ string) { evicted = append(evicted, k) },
	})
	for i := 0; i < 10; i++ {
		c.Put(i, "v")
		for _, st := range c.sh.stores {
			require.LessOrEqual(t, st.Len(), 4)
		}
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, evicted)
	assert.Equal(t, uint64(6), c.Metrics().Evictions)
	assert.Equal(t, uint64(6), c.Counters(policy.LRU).Evictions)
	assert.Equal(t, uint64(6), c.Counters(policy.LFU).Evictions)
	assert.Equal(t, 6, c.Backing().(*MemoryStore[int, string]).Len())
}

// Every evicted key carries its last written value in the backing store.
func TestCache_WriteThroughKeepsLastValue(t *testing.T) {
	t.Parallel()

	backing := NewMemoryStore[int, string]()
	c := newCache(t, Options[int, string]{Capacity: 1, Backing: backing})
	c.Put(1, "first")
	c.Put(1, "second")
	c.Put(2, "x")

	v, ok := backing.Get(1)
	require.True(t, ok)
	assert.Equal(t, "second", v)

	// No re-promotion: the backing copy never turns into a hit.
	_, ok = c.Get(1)
	assert.False(t, ok)
}

func TestCache_FlushToMemory(t *testing.T) {
	t.Parallel()

	backing := NewMemoryStore[int, string]()
	c := newCache(t, Options[int, string]{Capacity: 3, Backing: backing})
	c.Put(1, "a")
	c.Put(2, "b")
	c.Put(3, "c")
	c.Put(4, "d") // evicts 1

	c.FlushToMemory()
	for k := range c.All() {
		_, ok := backing.Get(k)
		assert.True(t, ok, "resident key %d must be flushed", k)
	}
	assert.Equal(t, 4, backing.Len())
	assert.Equal(t, 3, c.Len(), "flush must not clear the cache")
}

func TestCache_MetricsRatios(t *testing.T) {
	t.Parallel()

	c := newCache(t, Options[int, string]{Capacity: 1})
	c.Put(1, "a") // miss (insert)
	c.Get(1)      // hit
	c.Get(2)      // miss
	c.Put(2, "b") // miss + eviction

	m := c.Metrics()
	assert.Equal(t, uint64(4), m.Accesses)
	assert.Equal(t, uint64(1), m.Hits)
	assert.Equal(t, uint64(3), m.Misses)
	assert.Equal(t, uint64(1), m.Evictions)
	assert.InDelta(t, 0.25, m.HitRatio, 1e-9)
	assert.InDelta(t, 0.75, m.MissRatio, 1e-9)
	assert.InDelta(t, 0.25, m.EvictionRate, 1e-9)

	// Reading twice without an operation returns identical values.
	assert.Equal(t, m, c.Metrics())
	assert.Equal(t, uint64(4), c.Operations())
}

// Two hot keys interleaved with one-off keys at capacity 2: LRU keeps losing
// the hot keys, LFU keeps key 2 and only churns the newcomers. LFU wins the
// first evaluation and the flip is logged once.
func TestCache_SwitchesToBetterPolicy(t *testing.T) {
	t.Parallel()

	c := newCache(t, Options[int, string]{Capacity: 2, SwitchEvery: 10})
	c.Put(1, "a")
	c.Put(2, "b")
	c.Get(1)
	c.Get(2)
	c.Put(10, "x") // op 5: both evict 1
	c.Get(1)
	c.Put(11, "y") // LRU evicts 2, LFU evicts 10
	c.Get(2)       // LFU-only hit
	c.Put(12, "z")
	c.Get(1) // op 10

	lruC, lfuC := c.Counters(policy.LRU), c.Counters(policy.LFU)
	require.Greater(t, lfuC.HitRate(), lruC.HitRate())

	assert.Equal(t, policy.LFU, c.ActivePolicy())
	require.Len(t, c.SwitchLog(), 1)
	assert.Equal(t, Switch{Op: 10, From: policy.LRU, To: policy.LFU}, c.SwitchLog()[0])

	// Switching keeps contents: hot keys are still served.
	v, ok := c.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestCache_AllFollowsActivePolicy(t *testing.T) {
	t.Parallel()

	c := newCache(t, Options[int, string]{Capacity: 3, InitialPolicy: policy.LRU})
	c.Put(1, "a")
	c.Put(2, "b")
	c.Put(3, "c")
	c.Get(1)

	var keys []int
	for k := range c.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []int{1, 3, 2}, keys)

	// The loop body may re-enter the cache.
	for k := range c.All() {
		c.Get(k)
	}
}

func TestCache_CountersInvalidKind(t *testing.T) {
	t.Parallel()

	c := newCache(t, Options[int, string]{Capacity: 1})
	assert.Equal(t, Counters{}, c.Counters(policy.Kind(7)))
}

func TestCache_StoresStayValid(t *testing.T) {
	t.Parallel()

	c := newCache(t, Options[int, string]{Capacity: 8, SwitchEvery: 7})
	for i := 0; i < 2_000; i++ {
		k := (i * 7919) % 23
		if i%3 == 0 {
			c.Put(k, "v")
		} else {
			c.Get(k)
		}
	}
	require.NoError(t, c.sh.validate())
	assert.Equal(t, uint64(2_000), c.Operations())
}
