// Package flist implements the per-record free-block index: an ordered
// intrusive doubly-linked list, largest size first, stable at ties.
//
// The list is "intrusive" in the sense the source's glthread-based priority
// queue is: the linkage lives inside the element it orders (an Elem embedded
// in a block header) rather than in a wrapper node allocated by the
// container, so inserting a block into the index costs no extra allocation.
package flist

// Sized is implemented by anything that can sit in a List: Size reports the
// current ordering key. Re-evaluated on every comparison, so a caller that
// mutates an element's size while it is indexed must Remove/Insert it again
// rather than rely on an insertion mutating a stale key.
type Sized interface {
	Size() int
}

// Elem is the intrusive linkage node. Zero value is an unlinked, empty node.
type Elem struct {
	prev, next *Elem
	value      Sized
}

// Value returns the element currently occupying this node, or nil if the
// node is not linked into a List.
func (e *Elem) Value() Sized { return e.value }

// List orders its elements by descending Size(), stable among equal sizes.
type List struct {
	head, tail *Elem
}

// Empty reports whether the list has no elements.
func (l *List) Empty() bool { return l.head == nil }

// PeekMax returns the largest element, or nil if the list is empty.
func (l *List) PeekMax() Sized {
	if l.head == nil {
		return nil
	}
	return l.head.value
}

// Len counts the elements currently linked. O(n); intended for diagnostics
// and tests, not the allocation hot path.
func (l *List) Len() int {
	n := 0
	for e := l.head; e != nil; e = e.next {
		n++
	}
	return n
}

// Insert links e, holding v, into the list in descending-size order. e must
// not already be linked into any list.
func (l *List) Insert(e *Elem, v Sized) {
	e.value = v
	size := v.Size()

	if l.head == nil {
		e.prev, e.next = nil, nil
		l.head, l.tail = e, e
		return
	}

	// Walk past every element whose size is >= the new one, so a tie lands
	// after the elements already present (stable insertion order).
	cur := l.head
	for cur != nil && cur.value.Size() >= size {
		cur = cur.next
	}

	if cur == nil {
		e.prev, e.next = l.tail, nil
		l.tail.next = e
		l.tail = e
		return
	}

	e.next = cur
	e.prev = cur.prev
	if cur.prev != nil {
		cur.prev.next = e
	} else {
		l.head = e
	}
	cur.prev = e
}

// Remove unlinks e from the list. e must currently be linked into l.
func (l *List) Remove(e *Elem) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next, e.value = nil, nil, nil
}

// Each calls fn for every element, largest first.
func (l *List) Each(fn func(Sized)) {
	for e := l.head; e != nil; e = e.next {
		fn(e.value)
	}
}
