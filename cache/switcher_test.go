package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/adaptivecache/policy"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		active   policy.Kind
		lru, lfu Counters
		want     policy.Kind
	}{
		{"no accesses keeps LRU", policy.LRU, Counters{}, Counters{}, policy.LRU},
		{"no accesses keeps LFU", policy.LFU, Counters{}, Counters{}, policy.LFU},
		{"LFU strictly better", policy.LRU, Counters{Hits: 4, Misses: 6}, Counters{Hits: 5, Misses: 5}, policy.LFU},
		{"LRU strictly better", policy.LFU, Counters{Hits: 9, Misses: 1}, Counters{Hits: 1, Misses: 9}, policy.LRU},
		{"tie keeps LRU", policy.LRU, Counters{Hits: 3, Misses: 7}, Counters{Hits: 3, Misses: 7}, policy.LRU},
		{"tie keeps LFU", policy.LFU, Counters{Hits: 1, Misses: 1}, Counters{Hits: 5, Misses: 5}, policy.LFU},
		{"active better stays", policy.LRU, Counters{Hits: 6, Misses: 4}, Counters{Hits: 5, Misses: 5}, policy.LRU},
		{"evictions are ignored", policy.LRU, Counters{Hits: 5, Misses: 5, Evictions: 0}, Counters{Hits: 5, Misses: 5, Evictions: 99}, policy.LRU},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Decide(tc.active, tc.lru, tc.lfu))
		})
	}
}

func TestSwitcher_EvaluatesOnlyAtBoundary(t *testing.T) {
	t.Parallel()

	sw := switcher{every: 10, active: policy.LRU}
	var c [policy.NumKinds]Counters
	c[policy.LRU] = Counters{Hits: 1, Misses: 9}
	c[policy.LFU] = Counters{Hits: 8, Misses: 2}

	for op := uint64(1); op < 10; op++ {
		_, ok := sw.evaluate(op, c)
		require.False(t, ok, "op %d is not a boundary", op)
	}
	assert.Equal(t, policy.LRU, sw.active)

	got, ok := sw.evaluate(10, c)
	require.True(t, ok)
	assert.Equal(t, Switch{Op: 10, From: policy.LRU, To: policy.LFU}, got)
	assert.Equal(t, policy.LFU, sw.active)
	require.Len(t, sw.log, 1)

	// Same counters at the next boundary: LFU is already active, no new entry.
	_, ok = sw.evaluate(20, c)
	assert.False(t, ok)
	assert.Len(t, sw.log, 1)
}

func TestSwitcher_EqualRatesNoSwitch(t *testing.T) {
	t.Parallel()

	sw := switcher{every: 5, active: policy.LFU}
	var c [policy.NumKinds]Counters
	c[policy.LRU] = Counters{Hits: 2, Misses: 3}
	c[policy.LFU] = Counters{Hits: 2, Misses: 3}

	_, ok := sw.evaluate(5, c)
	assert.False(t, ok)
	assert.Empty(t, sw.log)
	assert.Equal(t, policy.LFU, sw.active)
}

func TestSwitcher_ZeroOpNeverEvaluates(t *testing.T) {
	t.Parallel()

	sw := switcher{every: 1, active: policy.LRU}
	var c [policy.NumKinds]Counters
	c[policy.LFU] = Counters{Hits: 1}
	_, ok := sw.evaluate(0, c)
	assert.False(t, ok)
}
