package mm

import (
	"bytes"
	"testing"

	"mm/pkg/pagesource"
)

func newTestAllocator(t *testing.T) *Allocator {
	t.Helper()
	return NewWithSource(pagesource.NewFake(4096))
}

func TestRegisterAndXcalloc(t *testing.T) {
	a := newTestAllocator(t)
	if status := a.Register("tlv_struct_t", 48); status != OK {
		t.Fatalf("expected OK, got %v", status)
	}

	payload, err := a.Xcalloc("tlv_struct_t", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payload) != 3*48 {
		t.Fatalf("got %d bytes, want %d", len(payload), 3*48)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	a := newTestAllocator(t)
	a.Register("emp_t", 32)
	if status := a.Register("emp_t", 32); status != Duplicate {
		t.Fatalf("expected Duplicate, got %v", status)
	}
}

func TestXfreeAndRealloc(t *testing.T) {
	a := newTestAllocator(t)
	a.Register("emp_t", 32)

	p, err := a.Xcalloc("emp_t", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Xfree(p)

	if _, err := a.Xcalloc("emp_t", 1); err != nil {
		t.Fatalf("unexpected error reallocating: %v", err)
	}
}

func TestRegisteredListsRecords(t *testing.T) {
	a := newTestAllocator(t)
	a.Register("emp_t", 32)
	a.Register("tlv_struct_t", 48)

	got := a.Registered()
	if len(got) != 2 {
		t.Fatalf("got %d registered records, want 2", len(got))
	}
}

func TestWriteReport(t *testing.T) {
	a := newTestAllocator(t)
	a.Register("emp_t", 32)
	if _, err := a.Xcalloc("emp_t", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := a.WriteReport(&buf); err != nil {
		t.Fatalf("unexpected error writing report: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty report")
	}
}
