// Package mm is a userspace, page-backed, type-aware object allocator: a
// typed calloc/free built directly on anonymous OS memory mappings rather
// than the process heap. Callers register named record types once, then
// allocate and free fixed-size runs of them through Xcalloc/Xfree.
//
// The allocator is single-threaded and keeps no internal locking; callers
// needing concurrent access must serialize their own calls.
package mm

import (
	"io"
	"sync"

	"mm/pkg/alloc"
	"mm/pkg/pagesource"
	"mm/pkg/registry"
)

// Status reports the outcome of registering a record type.
type Status = registry.Status

const (
	OK        = registry.OK
	Oversized = registry.Oversized
	Duplicate = registry.Duplicate
)

// RecordInfo summarizes one registered record type's current memory usage.
type RecordInfo = alloc.RecordInfo

// Allocator is a self-contained instance of the allocator, drawing pages
// from a pagesource.Source. The zero value is not usable; construct with
// New or NewWithSource.
type Allocator struct {
	engine *alloc.Engine
}

// New returns an Allocator backed by real, OS-mapped anonymous memory.
func New() *Allocator {
	return NewWithSource(pagesource.OS())
}

// NewWithSource returns an Allocator drawing pages from source, letting
// tests substitute pagesource.NewFake for real mappings.
func NewWithSource(source pagesource.Source) *Allocator {
	a := &Allocator{engine: alloc.New(source)}
	a.engine.Init()
	return a
}

// Register adds a new named record type of the given fixed size, available
// to later Xcalloc calls on this Allocator.
func (a *Allocator) Register(name string, size int) Status {
	_, status := a.engine.Register(name, size)
	return status
}

// Xcalloc allocates units contiguous, zero-filled records of the named,
// already-registered type.
func (a *Allocator) Xcalloc(name string, units int) ([]byte, error) {
	return a.engine.Xcalloc(name, units)
}

// Xfree releases a payload previously returned by Xcalloc on this
// Allocator. Misuse (an unrecognized or already-freed pointer) panics with
// *alloc.AssertionError rather than returning an error, matching the
// fatal-assert behaviour of a native calloc/free pair.
func (a *Allocator) Xfree(payload []byte) {
	a.engine.Xfree(payload)
}

// Registered lists the name of every record type registered on this
// Allocator so far, in the order the registry enumerates them: newest
// registry page first and, within a page, in registration order.
func (a *Allocator) Registered() []string {
	descs := a.engine.Registered()
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name()
	}
	return names
}

// Dump snapshots every registered record type's pages and blocks.
func (a *Allocator) Dump() []RecordInfo {
	return a.engine.Dump()
}

// WriteReport renders Dump as an aligned, human-readable table.
func (a *Allocator) WriteReport(w io.Writer) error {
	return a.engine.WriteReport(w)
}

var (
	defaultOnce sync.Once
	defaultA    *Allocator
)

func defaultAllocator() *Allocator {
	defaultOnce.Do(func() { defaultA = New() })
	return defaultA
}

// Init ensures the process-wide default Allocator exists, backed by real
// OS memory. Calling any of the package-level functions below does this
// implicitly; Init exists for callers that want the cost paid up front.
func Init() { defaultAllocator() }

// Register adds a record type to the process-wide default Allocator.
func Register(name string, size int) Status { return defaultAllocator().Register(name, size) }

// Xcalloc allocates through the process-wide default Allocator.
func Xcalloc(name string, units int) ([]byte, error) { return defaultAllocator().Xcalloc(name, units) }

// Xfree releases through the process-wide default Allocator.
func Xfree(payload []byte) { defaultAllocator().Xfree(payload) }
