package block

import "testing"

type fakeOwner struct {
	first *Page
}

func (o *fakeOwner) FirstPage() *Page       { return o.first }
func (o *fakeOwner) SetFirstPage(p *Page)   { o.first = p }

func TestPrependAndUnlinkPage(t *testing.T) {
	owner := &fakeOwner{}
	p1 := &Page{}
	p2 := &Page{}

	PrependPage(owner, p1)
	if owner.FirstPage() != p1 {
		t.Fatalf("expected p1 to be first page")
	}

	PrependPage(owner, p2)
	if owner.FirstPage() != p2 {
		t.Fatalf("expected p2 to be prepended as new first page")
	}
	if p2.Next != p1 || p1.Prev != p2 {
		t.Fatalf("expected p2 -> p1 chain")
	}

	UnlinkPage(owner, p2)
	if owner.FirstPage() != p1 {
		t.Fatalf("expected p1 to become first page after unlinking p2")
	}
	if p1.Prev != nil {
		t.Fatalf("expected p1.Prev cleared after unlinking p2")
	}
}

func TestIsEmpty(t *testing.T) {
	raw := make([]byte, 128)
	p := &Page{Raw: raw, Capacity: len(raw)}
	h := &Header{Page: p, Status: Free, Offset: 0, DataSize: len(raw)}
	p.FirstBlock = h

	if !p.IsEmpty() {
		t.Fatalf("expected single full free block to be empty page")
	}

	h.Status = Allocated
	if p.IsEmpty() {
		t.Fatalf("expected allocated block to make page non-empty")
	}
}

func TestNextBySize(t *testing.T) {
	raw := make([]byte, 128)
	p := &Page{Raw: raw}
	a := &Header{Page: p, Offset: 0, DataSize: 32}
	b := &Header{Page: p, Offset: 32 + HeaderSize, DataSize: 64}
	a.Next = b

	if !a.NextBySize() {
		t.Fatalf("expected a and b to be byte-contiguous")
	}

	c := &Header{Page: p, Offset: 32 + HeaderSize + 8, DataSize: 64}
	a.Next = c
	if a.NextBySize() {
		t.Fatalf("expected gap between a and c to break contiguity")
	}
}
