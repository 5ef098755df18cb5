// Package interpreter provides the reference bytecode-interpreting engine:
// a test oracle and debugging fallback for the JIT (spec.md §4.5).
package interpreter

import (
	"github.com/bfjit-dev/bfjit/internal/engine"
	"github.com/bfjit-dev/bfjit/internal/ir"
	"github.com/bfjit-dev/bfjit/internal/vmerr"
)

type engineImpl struct{}

// NewEngine returns the reference interpreter engine.
func NewEngine() engine.Engine {
	return engineImpl{}
}

// function holds a program together with a table of absolute jump targets
// resolved at construction (the IR's Jz/Jnz stay operand-less; this engine
// resolves its own targets, as in §9's "(a)" design): a Jz target is the
// index of its matching Jnz (so the zero branch skips straight past the
// loop), a Jnz target is one past its matching Jz (so the non-zero branch
// resumes at the loop body's first instruction).
type function struct {
	code    []ir.Instruction
	targets []uint32 // parallel to code; meaningful only for Jz/Jnz
}

// NewFunction implements engine.Engine.
func (engineImpl) NewFunction(prog ir.Program) (engine.Function, error) {
	targets := make([]uint32, len(prog))
	var stack []int
	for i, inst := range prog {
		switch inst.Op {
		case ir.Jz:
			stack = append(stack, i)
		case ir.Jnz:
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			targets[open] = uint32(i)     // Jz jumps to its Jnz
			targets[i] = uint32(open) + 1 // Jnz jumps past its Jz
		}
	}
	return &function{code: []ir.Instruction(prog), targets: targets}, nil
}

// Run implements engine.Function. It executes the program to completion or
// to the first fault.
func (f *function) Run(host engine.Host) error {
	tape := host.Tape()
	var ptr uint32
	pc := 0
	for pc < len(f.code) {
		inst := f.code[pc]
		switch inst.Op {
		case ir.AddVal:
			tape[ptr] = tape[ptr] + uint8(inst.Operand)
		case ir.SubVal:
			tape[ptr] = tape[ptr] - uint8(inst.Operand)
		case ir.AddPtr:
			// Pre-mutation bounds check: fault before ptr is updated.
			if uint32(len(tape))-ptr <= inst.Operand {
				return &vmerr.RuntimeError{Kind: vmerr.PointerOverflow}
			}
			ptr += inst.Operand
		case ir.SubPtr:
			if ptr < inst.Operand {
				return &vmerr.RuntimeError{Kind: vmerr.PointerOverflow}
			}
			ptr -= inst.Operand
		case ir.GetByte:
			b, eof, err := host.ReadByte()
			if err != nil {
				return &vmerr.IOError{Err: err}
			}
			if !eof {
				tape[ptr] = b
			}
		case ir.PutByte:
			if err := host.WriteByte(tape[ptr]); err != nil {
				return &vmerr.IOError{Err: err}
			}
		case ir.Jz:
			if tape[ptr] == 0 {
				pc = int(f.targets[pc])
			}
		case ir.Jnz:
			if tape[ptr] != 0 {
				pc = int(f.targets[pc]) - 1
			}
		}
		pc++
	}
	return nil
}
