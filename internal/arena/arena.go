// Package arena stores cache nodes in a slice and links them with int32
// handles instead of pointers. A store owns one Arena and any number of
// Lists threaded through it (LRU uses one list, LFU one per frequency).
package arena

import "math"

// Nil is the handle of "no node" (list ends, empty list).
const Nil int32 = -1

// Node is an entry plus its intrusive list links.
type Node[K comparable, V any] struct {
	Key   K
	Value V
	// Freq is the access frequency; only LFU stores maintain it.
	Freq uint64

	prev, next int32
}

// Arena owns every node of a store. Handles stay valid until Free.
type Arena[K comparable, V any] struct {
	nodes []Node[K, V]
	free  []int32
	live  int
}

// New returns an arena with room for capacity nodes before it grows.
func New[K comparable, V any](capacity int) *Arena[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena[K, V]{nodes: make([]Node[K, V], 0, capacity)}
}

// Alloc places k/v in a fresh or recycled slot and returns its handle.
// The node is unlinked.
func (a *Arena[K, V]) Alloc(k K, v V) int32 {
	var h int32
	if n := len(a.free); n > 0 {
		h = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		if len(a.nodes) > math.MaxInt32 {
			panic("arena: handle space exhausted")
		}
		a.nodes = append(a.nodes, Node[K, V]{})
		h = int32(len(a.nodes) - 1)
	}
	a.nodes[h] = Node[K, V]{Key: k, Value: v, prev: Nil, next: Nil}
	a.live++
	return h
}

// Free zeroes the slot (dropping references held by K/V) and recycles it.
// The node must already be unlinked from its list.
func (a *Arena[K, V]) Free(h int32) {
	a.nodes[h] = Node[K, V]{prev: Nil, next: Nil}
	a.free = append(a.free, h)
	a.live--
}

// At returns the node for h. The pointer is invalidated by the next Alloc.
func (a *Arena[K, V]) At(h int32) *Node[K, V] { return &a.nodes[h] }

// Live reports the number of allocated (not freed) nodes.
func (a *Arena[K, V]) Live() int { return a.live }
