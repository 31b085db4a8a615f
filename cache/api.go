package cache

import (
	"iter"

	"github.com/IvanBrykalov/adaptivecache/policy"
)

// Cache is an adaptive LRU/LFU key/value cache.
// All methods are safe for concurrent use; one lock serialises them.
//
// Get and Put are O(1): both policy stores are updated on every call, and
// the result comes from the active one.
type Cache[K comparable, V any] interface {
	// Get returns the value for k from the active policy and a presence flag.
	// Entries that were evicted are misses even if the backing store has them.
	Get(k K) (V, bool)

	// Put inserts or updates k→v. If the active store evicts to make room,
	// the victim is written to the backing store.
	Put(k K, v V)

	// FlushToMemory copies every resident entry of the active store into the
	// backing store. The cache itself is unchanged.
	FlushToMemory()

	// Metrics returns hit, miss and eviction ratios as observed by callers.
	Metrics() Report

	// ActivePolicy returns the policy currently serving results.
	ActivePolicy() policy.Kind

	// SwitchLog returns a copy of all policy switches, oldest first.
	SwitchLog() []Switch

	// Counters returns the cumulative tallies of one policy, active or not.
	Counters(p policy.Kind) Counters

	// Operations returns the number of Get and Put calls so far.
	Operations() uint64

	// Len returns the number of entries resident in the active store.
	Len() int

	// Capacity returns the per-store entry limit.
	Capacity() int

	// All yields a snapshot of the active store in its own order
	// (MRU first for LRU; ascending frequency for LFU).
	All() iter.Seq2[K, V]

	// Backing returns the write-through store.
	Backing() BackingStore[K, V]
}
