// Package bfjit compiles and runs Brainfuck programs, either by JIT-
// compiling them to native x86-64 machine code or by interpreting them,
// selected through Config.
package bfjit

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/bfjit-dev/bfjit/internal/engine"
	"github.com/bfjit-dev/bfjit/internal/engine/compiler"
	"github.com/bfjit-dev/bfjit/internal/engine/interpreter"
	"github.com/bfjit-dev/bfjit/internal/ir"
)

// VM holds one program's tape and I/O streams across repeated Run calls.
// It implements engine.Host so the engines can drive it directly.
type VM struct {
	cfg    *Config
	tape   []byte
	stdin  *bufio.Reader
	stdout io.Writer
}

// NewVM allocates a tape per cfg and wires stdin/stdout to os.Stdin and
// os.Stdout; use WithStdin/WithStdout to redirect them.
func NewVM(cfg *Config) *VM {
	return &VM{
		cfg:    cfg,
		tape:   make([]byte, cfg.tapeSize),
		stdin:  bufio.NewReader(os.Stdin),
		stdout: os.Stdout,
	}
}

// WithStdin redirects the VM's `,` source.
func (vm *VM) WithStdin(r io.Reader) *VM {
	vm.stdin = bufio.NewReader(r)
	return vm
}

// WithStdout redirects the VM's `.` sink.
func (vm *VM) WithStdout(w io.Writer) *VM {
	vm.stdout = w
	return vm
}

// Run compiles src and executes it to completion, clearing the tape first
// so a VM can run more than one program in sequence. It returns a
// *CompileError for a syntax problem, a *RuntimeError for a tape fault, or
// a *IOError if stdin/stdout returned one.
func (vm *VM) Run(src []byte) error {
	prog, err := ir.Compile(src)
	if err != nil {
		return err
	}
	if vm.cfg.optimize {
		prog = ir.Optimize(prog)
	}

	eng, err := vm.newEngine()
	if err != nil {
		return err
	}
	fn, err := eng.NewFunction(prog)
	if err != nil {
		return fmt.Errorf("bfjit: %w", err)
	}

	for i := range vm.tape {
		vm.tape[i] = 0
	}
	return fn.Run(vm)
}

func (vm *VM) newEngine() (engine.Engine, error) {
	switch vm.cfg.engine {
	case engineJIT:
		return compiler.NewEngine()
	default:
		return interpreter.NewEngine(), nil
	}
}

// Tape implements engine.Host.
func (vm *VM) Tape() []byte {
	return vm.tape
}

// ReadByte implements engine.Host.
func (vm *VM) ReadByte() (byte, bool, error) {
	b, err := vm.stdin.ReadByte()
	if err == io.EOF {
		return 0, true, nil
	}
	if err != nil {
		return 0, false, err
	}
	return b, false, nil
}

// WriteByte implements engine.Host.
func (vm *VM) WriteByte(b byte) error {
	_, err := vm.stdout.Write([]byte{b})
	return err
}
