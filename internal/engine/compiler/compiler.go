// Package compiler is the JIT engine: it lowers an ir.Program straight to
// x86-64 machine code (internal/engine/compiler/asm) and runs it through
// the nativecall trampolines over memory obtained from internal/platform.
//
// Grounded on the teacher's compiler.go/engine split (one Engine builds
// Functions ahead of time, one Function runs repeatedly) and on
// original_source/src/jit.rs for the register plan: R12 the VM handle,
// R13/R14 the tape's [start, end) bounds, RCX the cell pointer, R15
// scratch, RAX the callback address going in and the result code coming
// out.
package compiler

import (
	"fmt"
	"unsafe"

	"github.com/bfjit-dev/bfjit/internal/engine"
	"github.com/bfjit-dev/bfjit/internal/engine/compiler/nativecall"
	"github.com/bfjit-dev/bfjit/internal/ir"
	"github.com/bfjit-dev/bfjit/internal/platform"
	"github.com/bfjit-dev/bfjit/internal/vmerr"
)

type engineImpl struct{}

// NewEngine returns the JIT engine, or nativecall.ErrUnsupportedArch on a
// platform without a trampoline pair.
func NewEngine() (engine.Engine, error) {
	if !nativecall.Supported() {
		return nil, nativecall.ErrUnsupportedArch
	}
	return engineImpl{}, nil
}

// NewFunction assembles prog to machine code, maps it executable, and
// returns a Function ready to Run.
func (engineImpl) NewFunction(prog ir.Program) (engine.Function, error) {
	code, err := assemble(prog)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}

	seg, err := platform.Mmap(len(code))
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	copy(seg.Bytes(), code)
	if err := seg.Finalize(); err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}

	return &function{seg: seg}, nil
}

type function struct {
	seg *platform.CodeSegment
}

// hostAdapter bridges engine.Host to nativecall.Host and, because the
// boundary it crosses can only pass back a small result code, remembers the
// real error behind a ResultIOError so Run can return it verbatim.
type hostAdapter struct {
	engine.Host
	lastErr error
}

func (h *hostAdapter) ReadByte() (byte, bool, error) {
	b, eof, err := h.Host.ReadByte()
	if err != nil {
		h.lastErr = err
	}
	return b, eof, err
}

func (h *hostAdapter) WriteByte(b byte) error {
	err := h.Host.WriteByte(b)
	if err != nil {
		h.lastErr = err
	}
	return err
}

// Run implements engine.Function.
func (f *function) Run(host engine.Host) error {
	tape := host.Tape()
	if len(tape) == 0 {
		return fmt.Errorf("compiler: host tape must be non-empty")
	}

	adapter := &hostAdapter{Host: host}
	handle, release := nativecall.Register(adapter)
	defer release()

	memStart := uintptr(unsafe.Pointer(&tape[0]))
	memEnd := memStart + uintptr(len(tape))

	switch res := nativecall.Invoke(f.seg.Addr(), handle, memStart, memEnd); res {
	case nativecall.ResultOK:
		return nil
	case nativecall.ResultPointerOverflow:
		return &vmerr.RuntimeError{Kind: vmerr.PointerOverflow}
	case nativecall.ResultIOError:
		return &vmerr.IOError{Err: adapter.lastErr}
	default:
		return fmt.Errorf("compiler: unrecognized result code %d", res)
	}
}
