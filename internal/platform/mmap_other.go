//go:build !(linux || darwin)

package platform

import "errors"

// ErrUnsupportedPlatform is returned by Mmap on platforms other than linux
// and darwin. bfjit's JIT engine is Unix-only (SPEC_FULL.md §9); callers
// should fall back to the interpreter engine elsewhere.
var ErrUnsupportedPlatform = errors.New("platform: executable memory is only supported on linux and darwin")

// CodeSegment is the unsupported-platform stand-in; its methods are never
// reachable because Mmap always errors.
type CodeSegment struct{}

func Mmap(size int) (*CodeSegment, error) {
	return nil, ErrUnsupportedPlatform
}

func (s *CodeSegment) Bytes() []byte { return nil }
func (s *CodeSegment) Addr() uintptr { return 0 }
func (s *CodeSegment) Finalize() error { return ErrUnsupportedPlatform }
