package compiler

import (
	"fmt"

	"github.com/bfjit-dev/bfjit/internal/engine/compiler/asm"
	"github.com/bfjit-dev/bfjit/internal/engine/compiler/nativecall"
	"github.com/bfjit-dev/bfjit/internal/ir"
)

// loopFrame tracks the two labels a nested Jz/Jnz pair needs: bodyStart is
// bound immediately (Jnz jumps back to it), loopEnd is bound once the
// matching Jnz has been emitted (Jz jumps forward to it).
type loopFrame struct {
	bodyStart asm.Label
	loopEnd   asm.Label
}

// assemble lowers prog into a standalone function body: entered by
// nativecall's jitcall with (VM handle, tape start, tape end) in RDI/RSI/RDX,
// its own prologue moves them into R12/R13/R14 and seeds RCX with the
// initial cell pointer; it returns a nativecall.Result code in RAX.
func assemble(prog ir.Program) ([]byte, error) {
	a := asm.New()

	done := a.NewLabel()
	overflow := a.NewLabel()

	// Prologue: jitcall hands (this, memStart, memEnd) in DI/SI/DX per the
	// ordinary SysV convention; move them into the register plan the rest
	// of this function assumes, and seed RCX with the tape's start address
	// as the initial cell pointer.
	a.MovRegReg(asm.R12, asm.RDI)
	a.MovRegReg(asm.R13, asm.RSI)
	a.MovRegReg(asm.R14, asm.RDX)
	a.MovRegReg(asm.RCX, asm.RSI)

	var stack []loopFrame

	for i, inst := range prog {
		switch inst.Op {
		case ir.AddVal:
			a.AddMem8Imm8(asm.RCX, uint8(inst.Operand))
		case ir.SubVal:
			a.SubMem8Imm8(asm.RCX, uint8(inst.Operand))
		case ir.AddPtr:
			// Fault if RCX+operand would reach or pass mem_end, checked
			// before RCX is touched.
			a.MovRegReg(asm.R15, asm.R14)
			a.SubRegImm32(asm.R15, inst.Operand)
			a.CmpRegReg(asm.RCX, asm.R15)
			a.JccLabel(asm.CondAboveEqual, overflow)
			a.AddRegImm32(asm.RCX, inst.Operand)
		case ir.SubPtr:
			// Fault if RCX-operand would land before mem_start.
			a.MovRegReg(asm.R15, asm.R13)
			a.AddRegImm32(asm.R15, inst.Operand)
			a.CmpRegReg(asm.RCX, asm.R15)
			a.JccLabel(asm.CondBelow, overflow)
			a.SubRegImm32(asm.RCX, inst.Operand)
		case ir.GetByte:
			emitCallback(a, nativecall.KindGetByte, done)
		case ir.PutByte:
			emitCallback(a, nativecall.KindPutByte, done)
		case ir.Jz:
			frame := loopFrame{bodyStart: a.NewLabel(), loopEnd: a.NewLabel()}
			a.CmpMem8Imm8(asm.RCX, 0)
			a.JccLabel(asm.CondEqual, frame.loopEnd)
			a.Bind(frame.bodyStart)
			stack = append(stack, frame)
		case ir.Jnz:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unmatched Jnz at instruction %d", i)
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			a.CmpMem8Imm8(asm.RCX, 0)
			a.JccLabel(asm.CondNotEqual, frame.bodyStart)
			a.Bind(frame.loopEnd)
		default:
			return nil, fmt.Errorf("unhandled opcode %s", inst.Op)
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("%d unclosed loop(s) at end of program", len(stack))
	}

	// Normal completion: RAX = ResultOK.
	a.XorRegReg(asm.RAX, asm.RAX)
	a.JmpLabel(done)

	a.Bind(overflow)
	a.MovRegImm32(asm.RAX, uint32(nativecall.ResultPointerOverflow))

	a.Bind(done)
	a.Ret()

	return a.Finalize()
}

// emitCallback lowers a `,` or `.` instruction: load the VM handle, the
// current cell address and the callback kind into DI/SI/DX, call the
// trampoline, and jump straight to done (skipping the rest of the program)
// if it reports anything other than success — RAX already holds the right
// result code in that case.
func emitCallback(a *asm.Assembler, kind uintptr, done asm.Label) {
	a.MovRegReg(asm.RDI, asm.R12)
	a.MovRegReg(asm.RSI, asm.RCX)
	a.MovRegImm32(asm.RDX, uint32(kind))
	a.MovImm64(asm.RAX, uint64(nativecall.TrampolineAddr()))
	a.CallReg(asm.RAX)
	a.CmpRegImm32(asm.RAX, uint32(nativecall.ResultOK))
	a.JccLabel(asm.CondNotEqual, done)
}
