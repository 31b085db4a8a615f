package cache

import (
	"log/slog"

	"github.com/IvanBrykalov/adaptivecache/policy"
)

// DefaultSwitchEvery is the number of operations between policy
// evaluations when Options.SwitchEvery is zero.
const DefaultSwitchEvery = 100

// Options configures the engine. Zero values are safe; defaults are
// applied in New():
//   - SwitchEvery == 0 => DefaultSwitchEvery
//   - InitialPolicy    => LRU (the zero Kind)
//   - nil Backing      => a fresh MemoryStore
//   - nil Observer     => NoopObserver
//   - nil Logger       => discard
type Options[K comparable, V any] struct {
	// Capacity is the entry limit of each policy store. Must be >= 1.
	Capacity int

	// SwitchEvery is the evaluation interval, in operations (Get and Put).
	SwitchEvery uint64

	// InitialPolicy serves reads until the first switch.
	InitialPolicy policy.Kind

	// Backing receives every entry evicted from the active store and every
	// entry copied by FlushToMemory. It is never read by Get/Put.
	Backing BackingStore[K, V]

	// OnEvict is called for every eviction from the active store, under the
	// engine lock and after the backing write; keep it lightweight.
	OnEvict func(k K, v V)

	// Observability
	Observer Observer
	Logger   *slog.Logger
}
