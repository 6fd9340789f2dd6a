// Package registry implements the struct-record registry: the stack of
// fixed-capacity pages holding every Descriptor the allocator knows about.
// Descriptors, once registered, keep a stable address for the program's
// lifetime; the registry itself never shrinks or releases a page, matching
// the source's _mm_lookup_struct_record_by_name storage.
package registry

import (
	"mm/pkg/block"
	"mm/pkg/flist"
)

// MaxName is the longest record name a Descriptor can hold, matching the
// illustrative MAX_NAME constant from the scenarios a record-size budget
// was built around.
const MaxName = 32

// Status reports the outcome of registering a record.
type Status int

const (
	OK Status = iota
	Oversized
	Duplicate
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Oversized:
		return "OVERSIZED"
	case Duplicate:
		return "DUPLICATE"
	default:
		return "UNKNOWN"
	}
}

// Descriptor is one registered record type: its name, its fixed per-record
// size, and the chain of pages holding its allocated and free blocks.
// Descriptor implements block.Owner so pkg/block never needs to import
// this package.
type Descriptor struct {
	name string
	size int

	firstPage *block.Page

	// FreeIndex orders this record's free blocks largest-first, per
	// pkg/flist's contract.
	FreeIndex flist.List
}

func (d *Descriptor) Name() string { return d.name }
func (d *Descriptor) Size() int    { return d.size }

func (d *Descriptor) FirstPage() *block.Page     { return d.firstPage }
func (d *Descriptor) SetFirstPage(p *block.Page) { d.firstPage = p }

// recordsPerPage bounds how many descriptors a single registry page can
// hold, analogous to the source dividing a page's usable bytes by
// sizeof(struct_record_t) once per registry page.
const recordsPerPage = 32

type page struct {
	slots [recordsPerPage]Descriptor
	count int
	next  *page
}

// Registry is the stack of registry pages. It never reclaims a page:
// Descriptors keep stable addresses for the allocator's lifetime.
type Registry struct {
	pageSize int
	top      *page
}

// New returns an uninitialized Registry; call Init before Register.
func New() *Registry { return &Registry{} }

// Init fixes the registry's notion of the OS page size. Idempotent: any
// later call is a no-op, whatever page size it passes, matching the source's
// re-entrant mm_init.
func (r *Registry) Init(pageSize int) {
	if r.pageSize != 0 {
		return
	}
	r.pageSize = pageSize
}

// Lookup finds a previously registered descriptor by name, or nil.
func (r *Registry) Lookup(name string) *Descriptor {
	for p := r.top; p != nil; p = p.next {
		for i := 0; i < p.count; i++ {
			if p.slots[i].name == name {
				return &p.slots[i]
			}
		}
	}
	return nil
}

// Register adds a new record type. size must be positive; size larger than
// the registry's page budget, or a duplicate name, is reported via Status
// rather than an error, matching the source's integer-status
// mm_register_struct_record.
func (r *Registry) Register(name string, size int) (*Descriptor, Status) {
	if len(name) > MaxName || size <= 0 || size > r.pageSize {
		return nil, Oversized
	}
	if r.Lookup(name) != nil {
		return nil, Duplicate
	}

	if r.top == nil || r.top.count == recordsPerPage {
		r.top = &page{next: r.top}
	}
	d := &r.top.slots[r.top.count]
	d.name = name
	d.size = size
	r.top.count++
	return d, OK
}

// Each calls fn for every registered descriptor, newest registry page
// first and, within a page, in registration order (the order the source's
// stack-of-pages lookup walks in).
func (r *Registry) Each(fn func(*Descriptor)) {
	for p := r.top; p != nil; p = p.next {
		for i := 0; i < p.count; i++ {
			fn(&p.slots[i])
		}
	}
}

// Len reports how many records are currently registered.
func (r *Registry) Len() int {
	n := 0
	for p := r.top; p != nil; p = p.next {
		n += p.count
	}
	return n
}
