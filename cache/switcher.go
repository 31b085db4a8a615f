package cache

import "github.com/IvanBrykalov/adaptivecache/policy"

// Switch records one change of the active policy.
type Switch struct {
	// Op is the operation count at which the switch was decided.
	Op   uint64
	From policy.Kind
	To   policy.Kind
}

// Decide returns the policy that should serve next. It moves away from
// active only when the other policy's cumulative hit rate is strictly
// higher; equal rates keep the current policy.
func Decide(active policy.Kind, lru, lfu Counters) policy.Kind {
	rates := [policy.NumKinds]float64{
		policy.LRU: lru.HitRate(),
		policy.LFU: lfu.HitRate(),
	}
	other := active.Other()
	if rates[other] > rates[active] {
		return other
	}
	return active
}

// switcher owns the active policy and the switch log.
type switcher struct {
	every  uint64
	active policy.Kind
	log    []Switch
}

// evaluate runs Decide when op lands on an interval boundary. Counters are
// read, never reset.
func (s *switcher) evaluate(op uint64, c [policy.NumKinds]Counters) (Switch, bool) {
	if op == 0 || op%s.every != 0 {
		return Switch{}, false
	}
	next := Decide(s.active, c[policy.LRU], c[policy.LFU])
	if next == s.active {
		return Switch{}, false
	}
	sw := Switch{Op: op, From: s.active, To: next}
	s.active = next
	s.log = append(s.log, sw)
	return sw, true
}
