//go:build linux || darwin

// Package platform provides OS-level primitives the compiler engine needs
// that internal/ir and internal/engine have no business knowing about:
// allocating a page of memory that can hold machine code and then be
// switched from writable to executable.
//
// Grounded on the teacher's codeSegment/mmap handling
// (internal/platform/mmap_linux.go and mmap_unix.go in the pack): map
// read-write, write the machine code, mprotect to read-execute, and release
// the mapping from a runtime.SetFinalizer so a forgotten *CodeSegment
// doesn't leak executable pages.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// CodeSegment is a page-aligned block of memory holding compiled machine
// code. It starts out writable and not executable; Finalize flips it to
// executable and not writable. Its address is fixed for its lifetime: a
// built Function enters its machine code at Addr() on every run.
type CodeSegment struct {
	mem       []byte
	finalized bool
}

// Mmap reserves size bytes, rounded up to a page, as a private anonymous
// read-write mapping.
func Mmap(size int) (*CodeSegment, error) {
	if size <= 0 {
		return nil, fmt.Errorf("platform: mmap: size must be positive, got %d", size)
	}
	mem, err := unix.Mmap(-1, 0, pageAlign(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("platform: mmap: %w", err)
	}
	seg := &CodeSegment{mem: mem}
	runtime.SetFinalizer(seg, (*CodeSegment).release)
	return seg, nil
}

// Bytes returns the segment's backing slice for writing machine code into.
// It must not be called after Finalize.
func (s *CodeSegment) Bytes() []byte {
	return s.mem
}

// Addr returns the address of the first byte of the segment, used as the
// entry point once Finalize has made it executable.
func (s *CodeSegment) Addr() uintptr {
	return uintptr(unsafe.Pointer(&s.mem[0]))
}

// Finalize mprotects the segment from read-write to read-execute. After
// this call the segment's bytes must not be written again.
func (s *CodeSegment) Finalize() error {
	if err := unix.Mprotect(s.mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return fmt.Errorf("platform: mprotect: %w", err)
	}
	s.finalized = true
	return nil
}

func (s *CodeSegment) release() {
	_ = unix.Munmap(s.mem)
}

func pageAlign(n int) int {
	const pageSize = 4096
	return (n + pageSize - 1) &^ (pageSize - 1)
}
