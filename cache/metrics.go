package cache

import "github.com/IvanBrykalov/adaptivecache/policy"

// Observer receives engine signals for export (e.g. Prometheus).
// All calls happen under the engine lock.
type Observer interface {
	// Access is called once per policy for every Get and Put, including the
	// shadow policy.
	Access(p policy.Kind, hit bool)
	// Evict is called whenever a policy store evicts, active or shadow.
	Evict(p policy.Kind)
	// Switch is called when the active policy changes.
	Switch(from, to policy.Kind)
	// Size reports the active store's resident entries after a Put and
	// after a switch.
	Size(entries int)
}

// NoopObserver is a drop-in Observer that does nothing. It is the default
// when no observability backend is configured.
type NoopObserver struct{}

func (NoopObserver) Access(policy.Kind, bool) {}
func (NoopObserver) Evict(policy.Kind)        {}
func (NoopObserver) Switch(_, _ policy.Kind)  {}
func (NoopObserver) Size(int)                 {}

// Ensure NoopObserver implements the Observer interface at compile time.
var _ Observer = NoopObserver{}

// Counters are the cumulative per-policy tallies the switcher compares.
// A Put counts as a hit when the key was already resident in that store.
type Counters struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Accesses returns Hits + Misses.
func (c Counters) Accesses() uint64 { return c.Hits + c.Misses }

// HitRate returns Hits / Accesses, or 0 before the first access.
func (c Counters) HitRate() float64 {
	n := c.Accesses()
	if n == 0 {
		return 0
	}
	return float64(c.Hits) / float64(n)
}

func (c *Counters) record(hit bool) {
	if hit {
		c.Hits++
	} else {
		c.Misses++
	}
}

// Report is the aggregated view of what callers actually observed, i.e.
// results from whichever policy was active at the time.
type Report struct {
	HitRatio     float64
	MissRatio    float64
	EvictionRate float64

	Hits      uint64
	Misses    uint64
	Evictions uint64
	Accesses  uint64
}

// performance accumulates the counters behind Report.
type performance struct {
	hits, misses, evictions, accesses uint64
}

func (p *performance) record(hit, evicted bool) {
	p.accesses++
	if hit {
		p.hits++
	} else {
		p.misses++
	}
	if evicted {
		p.evictions++
	}
}

func (p *performance) report() Report {
	r := Report{
		Hits:      p.hits,
		Misses:    p.misses,
		Evictions: p.evictions,
		Accesses:  p.accesses,
	}
	if p.accesses == 0 {
		return r
	}
	total := float64(p.accesses)
	r.HitRatio = float64(p.hits) / total
	r.MissRatio = float64(p.misses) / total
	r.EvictionRate = float64(p.evictions) / total
	return r
}
