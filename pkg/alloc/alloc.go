// Package alloc implements the allocator core: xcalloc/xfree over pages of
// fixed-size records, built on pagesource, block and registry. It is the
// direct analogue of the source's mm_allocate_data_vm_page /
// _mm_delete_and_free_data_vm_page machinery, minus any dynamic-memory
// engine of its own: every byte it hands out or reclaims comes from a
// pagesource.Source.
package alloc

import (
	"errors"
	"fmt"

	"mm/pkg/block"
	"mm/pkg/pagesource"
	"mm/pkg/registry"
)

var (
	// ErrUnknownRecord is returned by Xcalloc when the record name was
	// never registered.
	ErrUnknownRecord = errors.New("alloc: unknown record name")

	// ErrInvalidUnits is returned by Xcalloc for a non-positive unit count.
	ErrInvalidUnits = errors.New("alloc: units must be positive")

	// ErrRecordTooLarge is returned when units*size cannot fit in a single
	// page, even an otherwise-empty one.
	ErrRecordTooLarge = errors.New("alloc: requested size exceeds one page's usable capacity")
)

// AssertionError marks a programmer error the allocator will not try to
// recover from: freeing a pointer it never handed out, or freeing the same
// pointer twice. The source treats the equivalent conditions as fatal
// assert() failures; Engine panics with AssertionError for the same reason.
type AssertionError struct {
	msg string
}

func (e *AssertionError) Error() string { return "alloc: " + e.msg }

func assertFail(format string, args ...any) {
	panic(&AssertionError{msg: fmt.Sprintf(format, args...)})
}

// Engine is the allocator. Not safe for concurrent use; the allocator is
// explicitly single-threaded, per its design.
type Engine struct {
	source   pagesource.Source
	registry *registry.Registry

	// live maps a payload's first byte back to its header, so Xfree can
	// recover block bookkeeping from an opaque []byte without unsafe
	// pointer arithmetic.
	live map[*byte]*block.Header
}

// New returns an Engine drawing pages from source. Init must be called
// before Register/Xcalloc.
func New(source pagesource.Source) *Engine {
	return &Engine{
		source:   source,
		registry: registry.New(),
		live:     make(map[*byte]*block.Header),
	}
}

// Init fixes the engine's page size from its source. Idempotent.
func (e *Engine) Init() {
	e.registry.Init(e.source.PageSize())
}

// Register adds a new record type, available to later Xcalloc calls.
func (e *Engine) Register(name string, size int) (*registry.Descriptor, registry.Status) {
	return e.registry.Register(name, size)
}

// Registered returns every record type registered so far, in the order the
// registry enumerates them. Supplements the source's
// mm_print_registered_struct_records.
func (e *Engine) Registered() []*registry.Descriptor {
	var out []*registry.Descriptor
	e.registry.Each(func(d *registry.Descriptor) { out = append(out, d) })
	return out
}

func (e *Engine) pageCapacity() int {
	return e.source.PageSize() - block.PageHeaderBytes
}

// Xcalloc allocates units contiguous, zero-filled records of the named
// type and returns the payload. The record type must already be
// registered.
func (e *Engine) Xcalloc(name string, units int) ([]byte, error) {
	d := e.registry.Lookup(name)
	if d == nil {
		return nil, ErrUnknownRecord
	}
	if units <= 0 {
		return nil, ErrInvalidUnits
	}

	needed := units * d.Size()
	if needed > e.pageCapacity() {
		return nil, ErrRecordTooLarge
	}

	h, err := e.findOrAcquireFreeBlock(d, needed)
	if err != nil {
		return nil, err
	}
	d.FreeIndex.Remove(&h.Index)
	e.splitBlock(d, h, needed)
	h.Status = block.Allocated

	payload := h.Payload()
	clear(payload)
	e.live[&payload[0]] = h
	return payload, nil
}

// findOrAcquireFreeBlock returns a free block able to hold needed bytes,
// taken from the descriptor's existing free index when the largest
// candidate there is big enough, or carved from a freshly acquired page
// otherwise. The source's error is returned if it refuses a new page.
func (e *Engine) findOrAcquireFreeBlock(d *registry.Descriptor, needed int) (*block.Header, error) {
	if max := d.FreeIndex.PeekMax(); max != nil {
		if h := max.(*block.Header); h.DataSize >= needed {
			return h, nil
		}
	}
	return e.acquirePage(d)
}

// acquirePage maps a new page, wraps it in a single free block spanning
// its entire usable capacity, and prepends it to d's page chain. If the
// source refuses the page, its error is returned and nothing is changed.
func (e *Engine) acquirePage(d *registry.Descriptor) (*block.Header, error) {
	tok, err := e.source.Acquire(1)
	if err != nil {
		return nil, err
	}

	capacity := e.pageCapacity()
	page := &block.Page{Raw: tok.Bytes, Token: tok, Capacity: capacity}
	h := &block.Header{
		Page:     page,
		Status:   block.Free,
		Offset:   0,
		DataSize: capacity,
	}
	page.FirstBlock = h
	block.PrependPage(d, page)

	d.FreeIndex.Insert(&h.Index, h)
	return h, nil
}

// splitBlock carves needed bytes off the front of h, handling the four
// splitting cases: exact fit, soft internal fragmentation, hard internal
// fragmentation, and a large residue — soft internal fragmentation and a
// large residue are treated identically (both simply leave a new free block
// behind).
func (e *Engine) splitBlock(d *registry.Descriptor, h *block.Header, needed int) {
	remainder := h.DataSize - needed
	h.DataSize = needed

	switch {
	case remainder == 0:
		// Case A: exact fit, nothing left to split off.
	case remainder <= block.HeaderSize:
		// Case C: hard internal fragmentation. The remaining bytes are too
		// small to host a header of their own; they stay as unreachable
		// slack between this block's payload and whatever follows, until a
		// free recovers them.
	default:
		// Cases B/D: the residue is large enough to become a free block of
		// its own.
		nh := &block.Header{
			Page:     h.Page,
			Status:   block.Free,
			Offset:   h.Offset + block.HeaderSize + needed,
			DataSize: remainder - block.HeaderSize,
			Next:     h.Next,
			Prev:     h,
		}
		if h.Next != nil {
			h.Next.Prev = nh
		}
		h.Next = nh
		d.FreeIndex.Insert(&nh.Index, nh)
	}
}

// Xfree releases a payload previously returned by Xcalloc. Freeing a
// pointer Xcalloc never handed out, or freeing the same pointer twice, is
// an AssertionError panic: both indicate a caller bug, not a recoverable
// condition.
func (e *Engine) Xfree(payload []byte) {
	if len(payload) == 0 {
		assertFail("xfree called with an empty payload")
	}
	key := &payload[0]

	h, ok := e.live[key]
	if !ok {
		assertFail("xfree called with a pointer this allocator never handed out, or already freed")
	}
	delete(e.live, key)

	d, ok := h.Page.Owner.(*registry.Descriptor)
	if !ok {
		assertFail("block's owning page has no registry descriptor")
	}

	h.Status = block.Free
	e.absorbHardFragRight(h)
	h = e.mergeRight(d, h)
	h = e.mergeLeft(d, h)

	page := h.Page
	if page.IsEmpty() {
		block.UnlinkPage(d, page)
		if err := e.source.Release(page.Token); err != nil {
			// The source's own teardown failing leaves no further action
			// to take; the page is already unlinked from the descriptor.
			_ = err
		}
		return
	}

	d.FreeIndex.Insert(&h.Index, h)
}

// absorbHardFragRight reclaims any hard-internal-fragmentation slack that
// was left dangling to h's right when h (or an ancestor split) was carved:
// bytes between h's declared end and whatever comes next that were too few
// to host a header of their own.
func (e *Engine) absorbHardFragRight(h *block.Header) {
	var gap int
	if h.Next != nil {
		// A following block's header space is already reserved for it; the
		// slack is whatever sits before that reservation.
		gap = h.Next.Offset - (h.Offset + h.TotalSize())
	} else {
		// Last block on the page: nothing reserves a header past it, so
		// the slack runs all the way to the page's usable end.
		gap = h.Page.Capacity - (h.Offset + h.DataSize)
	}
	if gap > 0 {
		h.DataSize += gap
	}
}

// mergeRight absorbs h's right neighbour into h if it is free and
// byte-contiguous, removing it from d's free index and the page's block
// chain.
func (e *Engine) mergeRight(d *registry.Descriptor, h *block.Header) *block.Header {
	if h.Next == nil || h.Next.Status != block.Free || !h.NextBySize() {
		return h
	}
	next := h.Next
	d.FreeIndex.Remove(&next.Index)
	h.DataSize += block.HeaderSize + next.DataSize
	h.Next = next.Next
	if next.Next != nil {
		next.Next.Prev = h
	}
	return h
}

// mergeLeft absorbs h into its left neighbour if that neighbour is free
// and byte-contiguous, returning whichever header now represents the
// merged block.
func (e *Engine) mergeLeft(d *registry.Descriptor, h *block.Header) *block.Header {
	prev := h.Prev
	if prev == nil || prev.Status != block.Free || !prev.NextBySize() {
		return h
	}
	d.FreeIndex.Remove(&prev.Index)
	prev.DataSize += block.HeaderSize + h.DataSize
	prev.Next = h.Next
	if h.Next != nil {
		h.Next.Prev = prev
	}
	return prev
}
