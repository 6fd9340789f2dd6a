package pagesource

import "testing"

func TestFakeAcquireRelease(t *testing.T) {
	f := NewFake(4096)
	tok, err := f.Acquire(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tok.Bytes) != 8192 {
		t.Fatalf("got %d bytes, want 8192", len(tok.Bytes))
	}
	for _, b := range tok.Bytes {
		if b != 0 {
			t.Fatalf("expected zero-filled page")
		}
	}
	if err := f.Release(tok); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}
	if f.Acquired() != 1 || f.Released() != 1 {
		t.Fatalf("got acquired=%d released=%d, want 1,1", f.Acquired(), f.Released())
	}
}

func TestFakeFailNextAcquire(t *testing.T) {
	f := NewFake(4096)
	f.FailNextAcquire(2)

	if _, err := f.Acquire(1); err != ErrAcquireFailed {
		t.Fatalf("expected ErrAcquireFailed, got %v", err)
	}
	if _, err := f.Acquire(1); err != ErrAcquireFailed {
		t.Fatalf("expected ErrAcquireFailed, got %v", err)
	}
	if _, err := f.Acquire(1); err != nil {
		t.Fatalf("expected success on third call, got %v", err)
	}
}
