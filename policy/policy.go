// Package policy defines the eviction disciplines the engine can run and the
// contract their stores satisfy.
package policy

import (
	"fmt"
	"iter"
	"strings"
)

// Kind identifies an eviction discipline. Kinds are dense from zero so the
// engine can index per-policy state with them.
type Kind uint8

const (
	// LRU evicts the entry least recently accessed.
	LRU Kind = iota
	// LFU evicts the entry accessed the fewest times; ties go to the oldest
	// entry at that frequency.
	LFU

	// NumKinds is the number of defined kinds.
	NumKinds = 2
)

// String returns "LRU" or "LFU".
func (k Kind) String() string {
	switch k {
	case LRU:
		return "LRU"
	case LFU:
		return "LFU"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool { return k < NumKinds }

// Other returns the opposite discipline.
func (k Kind) Other() Kind {
	if k == LRU {
		return LFU
	}
	return LRU
}

// ParseKind accepts "lru" or "lfu" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LRU":
		return LRU, nil
	case "LFU":
		return LFU, nil
	}
	return 0, fmt.Errorf("policy: unknown kind %q (use lru or lfu)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(strings.ToLower(k.String())), nil }

// UnmarshalText implements encoding.TextUnmarshaler, so Kind can be used
// directly in env-tagged config structs.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Entry is a resident key/value pair as seen by a store. Freq is the LFU
// access count and is zero for stores that do not track it.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
	Freq  uint64
}

// Store is a fixed-capacity key/value structure with one eviction
// discipline. Every operation is O(1) except All and Validate.
//
// Stores are not safe for concurrent use; the engine serialises access.
type Store[K comparable, V any] interface {
	// Kind returns the discipline this store implements.
	Kind() Kind
	// Get returns the value for k and records the access.
	Get(k K) (V, bool)
	// Put inserts or updates k. When a new key arrives at capacity, the
	// victim is removed first and returned with ok=true.
	Put(k K, v V) (evicted Entry[K, V], ok bool)
	// Peek returns the value for k without recording an access.
	Peek(k K) (V, bool)
	// Contains reports whether k is resident, without recording an access.
	Contains(k K) bool
	// Len returns the number of resident entries.
	Len() int
	// Cap returns the fixed capacity.
	Cap() int
	// All yields resident entries in the store's own order.
	All() iter.Seq2[K, V]
	// Validate walks the whole structure and reports the first broken
	// invariant. It is meant for tests and debug builds.
	Validate() error
}
