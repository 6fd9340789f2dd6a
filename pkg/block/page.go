package block

import "mm/pkg/pagesource"

// Owner is implemented by a record descriptor: the thing a page of blocks
// belongs to. Defined here, rather than in the registry package, so block
// never imports registry and registry can still embed a *Page chain.
type Owner interface {
	FirstPage() *Page
	SetFirstPage(*Page)
}

// Page is one page-source mapping carved into a doubly-linked chain of
// blocks. Prev/Next link pages belonging to the same Owner, most recently
// prepended first (newest page closest to the owner), matching the source's
// prepend-on-allocate, lookup-from-head behaviour.
type Page struct {
	Owner Owner
	Prev  *Page
	Next  *Page

	Raw      []byte
	Token    pagesource.Token
	Capacity int // usable payload bytes, i.e. len(Raw) - PageHeaderBytes

	// FirstBlock is the head of this page's doubly-linked block chain.
	FirstBlock *Header
}

// IsEmpty reports whether the page holds exactly one block, free, spanning
// the page's entire usable capacity: the condition under which the page
// itself can be released back to the source.
func (p *Page) IsEmpty() bool {
	b := p.FirstBlock
	return b != nil && b.Next == nil && b.Status == Free && b.Offset == 0 &&
		b.DataSize == p.Capacity
}

// PageOf returns the page a header belongs to.
func PageOf(h *Header) *Page { return h.Page }

// PrependPage links p as the new first page of owner's chain.
func PrependPage(owner Owner, p *Page) {
	old := owner.FirstPage()
	p.Prev = nil
	p.Next = old
	if old != nil {
		old.Prev = p
	}
	p.Owner = owner
	owner.SetFirstPage(p)
}

// UnlinkPage removes p from owner's chain. p must currently belong to the
// chain rooted at owner.FirstPage().
func UnlinkPage(owner Owner, p *Page) {
	if p.Prev != nil {
		p.Prev.Next = p.Next
	} else {
		owner.SetFirstPage(p.Next)
	}
	if p.Next != nil {
		p.Next.Prev = p.Prev
	}
	p.Prev, p.Next = nil, nil
}

// Blocks returns every block header on the page, head to tail, for
// diagnostics and tests.
func (p *Page) Blocks() []*Header {
	var out []*Header
	for b := p.FirstBlock; b != nil; b = b.Next {
		out = append(out, b)
	}
	return out
}
