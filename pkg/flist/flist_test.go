package flist

import "testing"

type sizedInt struct {
	n int
}

func (s *sizedInt) Size() int { return s.n }

func TestListOrdersDescending(t *testing.T) {
	var l List
	values := []int{10, 50, 30, 50, 5}
	elems := make([]*Elem, len(values))
	for i, v := range values {
		elems[i] = &Elem{}
		l.Insert(elems[i], &sizedInt{n: v})
	}

	var got []int
	l.Each(func(s Sized) { got = append(got, s.Size()) })

	want := []int{50, 50, 30, 10, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestListStableAtTies(t *testing.T) {
	var l List
	first := &Elem{}
	second := &Elem{}
	l.Insert(first, &sizedInt{n: 100})
	l.Insert(second, &sizedInt{n: 100})

	if l.PeekMax() != first.Value() {
		t.Fatalf("expected first-inserted equal-size element to stay ahead")
	}
}

func TestPeekMaxEmpty(t *testing.T) {
	var l List
	if v := l.PeekMax(); v != nil {
		t.Fatalf("expected nil peek on empty list, got %v", v)
	}
	if !l.Empty() {
		t.Fatalf("expected empty list")
	}
}

func TestRemove(t *testing.T) {
	var l List
	a := &Elem{}
	b := &Elem{}
	c := &Elem{}
	l.Insert(a, &sizedInt{n: 30})
	l.Insert(b, &sizedInt{n: 20})
	l.Insert(c, &sizedInt{n: 10})

	l.Remove(b)
	if l.Len() != 2 {
		t.Fatalf("expected 2 elements after remove, got %d", l.Len())
	}

	var got []int
	l.Each(func(s Sized) { got = append(got, s.Size()) })
	want := []int{30, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	l.Remove(a)
	l.Remove(c)
	if !l.Empty() {
		t.Fatalf("expected list to be empty after removing all elements")
	}
}

func TestRemoveHeadAndTail(t *testing.T) {
	var l List
	a := &Elem{}
	l.Insert(a, &sizedInt{n: 1})
	l.Remove(a)
	if !l.Empty() || l.head != nil || l.tail != nil {
		t.Fatalf("expected fully unlinked empty list")
	}
}
