package prom

import (
	"github.com/IvanBrykalov/adaptivecache/cache"
	"github.com/IvanBrykalov/adaptivecache/policy"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.Observer and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	accesses *prometheus.CounterVec
	evicts   *prometheus.CounterVec
	switches *prometheus.CounterVec
	active   *prometheus.GaugeVec
	sizeEnt  prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
//   - initial:      the engine's InitialPolicy, so active_policy is correct before the first switch
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels, initial policy.Kind) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		accesses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "accesses_total",
				Help:        "Accesses seen by each policy store, active or shadow",
				ConstLabels: constLabels,
			},
			[]string{"policy", "result"},
		),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Evictions by policy store",
				ConstLabels: constLabels,
			},
			[]string{"policy"},
		),
		switches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "policy_switches_total",
				Help:        "Changes of the active eviction policy",
				ConstLabels: constLabels,
			},
			[]string{"from", "to"},
		),
		active: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "active_policy",
				Help:        "1 for the policy currently serving reads, 0 otherwise",
				ConstLabels: constLabels,
			},
			[]string{"policy"},
		),
		sizeEnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of entries resident in the active store",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.accesses, a.evicts, a.switches, a.active, a.sizeEnt)
	a.setActive(initial)
	return a
}

// Access increments the access counter for p with a hit/miss label.
func (a *Adapter) Access(p policy.Kind, hit bool) {
	a.accesses.WithLabelValues(label(p), result(hit)).Inc()
}

// Evict increments the eviction counter for p.
func (a *Adapter) Evict(p policy.Kind) { a.evicts.WithLabelValues(label(p)).Inc() }

// Switch counts the transition and moves the active_policy gauge.
func (a *Adapter) Switch(from, to policy.Kind) {
	a.switches.WithLabelValues(label(from), label(to)).Inc()
	a.setActive(to)
}

// Size updates the resident entries gauge.
func (a *Adapter) Size(entries int) { a.sizeEnt.Set(float64(entries)) }

func (a *Adapter) setActive(p policy.Kind) {
	for k := policy.Kind(0); k < policy.NumKinds; k++ {
		v := 0.0
		if k == p {
			v = 1
		}
		a.active.WithLabelValues(label(k)).Set(v)
	}
}

// label maps a policy.Kind to a stable label value.
func label(p policy.Kind) string {
	switch p {
	case policy.LFU:
		return "lfu"
	default:
		return "lru"
	}
}

func result(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// Compile-time check: ensure Adapter implements cache.Observer.
var _ cache.Observer = (*Adapter)(nil)
