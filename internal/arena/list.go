package arena

import "fmt"

// List is an intrusive doubly linked list over an Arena (head=front, tail=back).
// All operations are O(1) except Check and Walk.
type List[K comparable, V any] struct {
	a    *Arena[K, V]
	head int32
	tail int32
	len  int
}

// NewList returns an empty list threaded through a.
func NewList[K comparable, V any](a *Arena[K, V]) *List[K, V] {
	return &List[K, V]{a: a, head: Nil, tail: Nil}
}

// Len returns the number of linked nodes.
func (l *List[K, V]) Len() int { return l.len }

// Front returns the head handle (Nil when empty).
func (l *List[K, V]) Front() int32 { return l.head }

// Back returns the tail handle (Nil when empty).
func (l *List[K, V]) Back() int32 { return l.tail }

// PushFront links an unlinked node h at the head.
func (l *List[K, V]) PushFront(h int32) {
	n := l.a.At(h)
	n.prev = Nil
	n.next = l.head
	if l.head != Nil {
		l.a.At(l.head).prev = h
	}
	l.head = h
	if l.tail == Nil {
		l.tail = h
	}
	l.len++
}

// MoveToFront promotes h (already in this list) to the head.
func (l *List[K, V]) MoveToFront(h int32) {
	if h == l.head {
		return
	}
	l.Remove(h)
	l.PushFront(h)
}

// Remove unlinks h from this list. The node stays allocated.
func (l *List[K, V]) Remove(h int32) {
	n := l.a.At(h)
	if n.prev != Nil {
		l.a.At(n.prev).next = n.next
	} else {
		l.head = n.next
	}
	if n.next != Nil {
		l.a.At(n.next).prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = Nil, Nil
	l.len--
}

// Walk visits handles from head to tail until fn returns false.
func (l *List[K, V]) Walk(fn func(h int32) bool) {
	for h := l.head; h != Nil; {
		next := l.a.At(h).next
		if !fn(h) {
			return
		}
		h = next
	}
}

// Check verifies the link structure: head/tail are Nil iff the list is
// empty, every prev/next pair agrees, and a head-to-tail walk visits
// exactly Len nodes.
func (l *List[K, V]) Check() error {
	if (l.head == Nil) != (l.tail == Nil) || (l.head == Nil) != (l.len == 0) {
		return fmt.Errorf("arena: list ends head=%d tail=%d len=%d", l.head, l.tail, l.len)
	}
	if l.head != Nil && l.a.At(l.head).prev != Nil {
		return fmt.Errorf("arena: head %d has prev %d", l.head, l.a.At(l.head).prev)
	}
	count := 0
	prev := Nil
	for h := l.head; h != Nil; h = l.a.At(h).next {
		if l.a.At(h).prev != prev {
			return fmt.Errorf("arena: node %d prev=%d, want %d", h, l.a.At(h).prev, prev)
		}
		prev = h
		count++
		if count > l.len {
			return fmt.Errorf("arena: walk exceeds len %d", l.len)
		}
	}
	if prev != l.tail {
		return fmt.Errorf("arena: walk ended at %d, tail is %d", prev, l.tail)
	}
	if count != l.len {
		return fmt.Errorf("arena: walked %d nodes, len is %d", count, l.len)
	}
	return nil
}
