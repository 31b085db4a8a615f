// Package cache provides a generic in-memory key/value cache that runs LRU
// and LFU eviction side by side and serves reads from whichever has the
// better hit rate so far.
//
// Design
//
//   - Stores: each policy keeps its own O(1) store (package policy/lru and
//     policy/lfu) with the same capacity. Nodes live in a slice arena and
//     are linked by int32 handles, so relocation is index surgery.
//
//   - Shadow execution: every Get and Put is applied to both stores. The
//     caller sees only the active store's result; the other store is a
//     mirror whose hit/miss counters say how it would have done.
//
//   - Switching: every Options.SwitchEvery operations (default 100) the
//     engine compares the two cumulative hit rates and flips to the other
//     policy only if it is strictly better. Counters are never reset, and
//     each flip is appended to SwitchLog.
//
//   - Write-through: an entry evicted from the active store is recorded in
//     Options.Backing (a MemoryStore by default). The backing store is never
//     read on Get; FlushToMemory copies all resident entries into it.
//
//   - Metrics: Metrics() reports hit/miss/eviction ratios of what callers
//     observed. Options.Observer receives per-policy signals; plug the
//     Prometheus adapter from metrics/prom to export them.
//
// Basic usage
//
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	if err != nil {
//	    return err
//	}
//	c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v
//	}
//	fmt.Println(c.ActivePolicy(), c.Metrics().HitRatio)
//
// Thread-safety & complexity
//
// All methods are safe for concurrent use and take a single engine lock.
// Get and Put cost one map lookup and a constant number of handle fixes per
// store. Build with -tags adaptivecache_debug to validate every store
// invariant after each operation.
package cache
