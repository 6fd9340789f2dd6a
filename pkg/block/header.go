// Package block implements the per-block header and page bookkeeping that
// sit between a registered record type and raw page-source memory: every
// allocation and free walks these headers, never the record's own bytes.
package block

import "mm/pkg/flist"

// Status is a block's allocation state.
type Status int

const (
	Free Status = iota
	Allocated
)

func (s Status) String() string {
	if s == Allocated {
		return "ALLOCATED"
	}
	return "FREE"
}

// HeaderSize is the fixed metadata footprint charged against every block,
// whether free or allocated. It mirrors the source's meta_block_t and is
// what a split must leave behind for a residue to become a usable block.
const HeaderSize = 32

// PageHeaderBytes is the fixed footprint a Page itself costs, before any
// blocks are carved out of it.
const PageHeaderBytes = 64

// Header describes one block of record-sized memory inside a Page. Unlike
// the C source's meta_block_t, Header is not packed into the raw byte
// buffer; the buffer holds only payload bytes, and the Header lives as an
// ordinary Go value reachable from Page.FirstBlock / the prev/next chain. This
// keeps every offset computation (Size, Payload, NextBySize) meaningful for
// accounting purposes while letting the garbage collector, not manual
// pointer arithmetic, own the header's lifetime.
type Header struct {
	Status   Status
	DataSize int // usable payload bytes, excludes HeaderSize
	Offset   int // byte offset of this block's payload within Page.Raw

	Prev, Next *Header
	Page       *Page

	// Index is this header's node in its owning Descriptor's free-block
	// list. Only meaningful while Status == Free.
	Index flist.Elem
}

// Size implements flist.Sized: blocks are ordered in the free index by
// usable payload size.
func (h *Header) Size() int { return h.DataSize }

// Payload returns the block's usable bytes.
func (h *Header) Payload() []byte {
	return h.Page.Raw[h.Offset : h.Offset+h.DataSize]
}

// TotalSize is the block's full footprint including its header, i.e. what
// a split must account for out of a larger block's residue.
func (h *Header) TotalSize() int { return HeaderSize + h.DataSize }

// NextBySize reports whether Next is contiguous with this block in the
// page's byte layout (as opposed to merely being the next header in the
// page's doubly-linked chain, which is always true). Used only as the
// contiguity check in Xfree's merges, never for ordering or traversal.
func (h *Header) NextBySize() bool {
	return h.Next != nil && h.Next.Offset == h.Offset+h.TotalSize()
}
