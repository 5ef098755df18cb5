// Package engine defines the abstraction the interpreter and JIT engines
// both implement, selected at VM construction time by bfjit.Config —
// mirroring the teacher's wasm.Engine split between
// internal/engine/interpreter and internal/engine/compiler.
package engine

import "github.com/bfjit-dev/bfjit/internal/ir"

// Engine turns an IR program into a runnable Function.
type Engine interface {
	NewFunction(prog ir.Program) (Function, error)
}

// Function runs a single compiled (or interpreted) program once against a
// Host's tape and I/O.
type Function interface {
	Run(host Host) error
}

// Host is implemented by the root VM. It is the only way a Function
// touches the outside world: the tape, input and output streams.
type Host interface {
	// Tape returns the VM's cell storage. Its length and address are fixed
	// for the Host's lifetime.
	Tape() []byte

	// ReadByte reads one byte of input. eof is true and err is nil at a
	// clean end of stream; the cell is left unchanged in that case.
	ReadByte() (b byte, eof bool, err error)

	// WriteByte writes one byte of output.
	WriteByte(b byte) error
}
