//go:build windows

// pkg/pagesource/mmap_windows.go
package pagesource

import (
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

type osSource struct {
	pageSize int
}

var (
	osOnce   sync.Once
	osShared *osSource
)

// OS returns the shared OS-backed page source. PAGE_SIZE is queried once
// and cached for the process lifetime.
func OS() Source {
	osOnce.Do(func() {
		osShared = &osSource{pageSize: os.Getpagesize()}
	})
	return osShared
}

func (s *osSource) PageSize() int { return s.pageSize }

func (s *osSource) Acquire(nPages int) (Token, error) {
	size := uintptr(nPages * s.pageSize)
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return Token{}, ErrAcquireFailed
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size))
	return Token{Bytes: data, addr: addr}, nil
}

func (s *osSource) Release(t Token) error {
	if t.addr == 0 {
		return nil
	}
	return windows.VirtualFree(t.addr, 0, windows.MEM_RELEASE)
}
