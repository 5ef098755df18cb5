// Package asm is a small hand-rolled x86-64 encoder: just enough of the
// instruction set for the compiler engine to lower IR into machine code,
// plus a two-pass label/fixup scheme for forward branches.
//
// Grounded on the teacher's own internal/asm/amd64 encoder (impl.go's
// REX-prefix and ModRM construction) rather than on golang-asm, which the
// teacher's go.mod itself flags as legacy: "error-prone to compile; we
// recommend an emulator" used to be enough reason to drop it, and writing
// straight to a byte buffer is both simpler and a better fit for a
// single-shot JIT than driving golang-asm's obj.Prog builder would be.
// The forward-reference fixup table mirrors the encoder in
// other_examples/lcox74-bfcc's internal/codegen (linux/x86_64): collect one
// patch site per unresolved jump, then rewrite the rel32 once every label
// lands.
package asm

import (
	"encoding/binary"
	"fmt"
)

// Reg is a general-purpose x86-64 register, numbered per the Intel ModRM/SIB
// encoding (0-7 direct, 8-15 needing REX.R/X/B).
type Reg byte

const (
	RAX Reg = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

func (r Reg) needsREX() bool { return r >= R8 }
func (r Reg) low3() byte     { return byte(r) & 0x7 }

// Cond is a condition code for a Jcc.
type Cond byte

const (
	CondEqual      Cond = 0x4 // JE/JZ
	CondNotEqual   Cond = 0x5 // JNE/JNZ
	CondBelow      Cond = 0x2 // JB/JC, unsigned <
	CondAboveEqual Cond = 0x3 // JAE/JNC, unsigned >=
)

// Label is a forward or backward branch target bound with Bind.
type Label struct {
	id int
}

type fixup struct {
	pos      int // offset of the rel32 field to patch
	label    int // label id this fixup targets
	fieldLen int // width of the rel32 field itself, for computing "next instruction"
}

// Assembler accumulates machine code into a single in-order buffer,
// resolving branch targets once Finalize is called.
type Assembler struct {
	buf    []byte
	labels []int // label id -> bound offset, -1 until Bind
	fixups []fixup
}

// New returns an empty Assembler.
func New() *Assembler {
	return &Assembler{}
}

// Pos returns the current write offset, useful for building jump tables or
// bookkeeping outside the assembler itself.
func (a *Assembler) Pos() int { return len(a.buf) }

// NewLabel allocates an unbound label.
func (a *Assembler) NewLabel() Label {
	a.labels = append(a.labels, -1)
	return Label{id: len(a.labels) - 1}
}

// Bind fixes l to the current write position.
func (a *Assembler) Bind(l Label) {
	a.labels[l.id] = len(a.buf)
}

func (a *Assembler) emit(b ...byte) {
	a.buf = append(a.buf, b...)
}

// rex builds a REX prefix. w selects 64-bit operand size; r/x/b extend the
// reg, index and rm/base fields respectively with each register's high bit.
func rex(w, r, x, b bool) byte {
	v := byte(0x40)
	if w {
		v |= 1 << 3
	}
	if r {
		v |= 1 << 2
	}
	if x {
		v |= 1 << 1
	}
	if b {
		v |= 1
	}
	return v
}

func modrm(mod, reg, rm byte) byte {
	return mod<<6 | (reg&0x7)<<3 | rm&0x7
}

// PushReg emits `push reg`.
func (a *Assembler) PushReg(r Reg) {
	if r.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0x50 + r.low3())
}

// PopReg emits `pop reg`.
func (a *Assembler) PopReg(r Reg) {
	if r.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0x58 + r.low3())
}

// MovRegReg emits `mov dst, src` (64-bit).
func (a *Assembler) MovRegReg(dst, src Reg) {
	a.emit(rex(true, src.needsREX(), false, dst.needsREX()), 0x89, modrm(0x3, byte(src.low3()), byte(dst.low3())))
}

// MovImm64 emits `movabs dst, imm` (64-bit).
func (a *Assembler) MovImm64(dst Reg, imm uint64) {
	a.emit(rex(true, false, false, dst.needsREX()), 0xB8+dst.low3())
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], imm)
	a.emit(b[:]...)
}

// AddMem8Imm8 emits `add byte [base], imm8`.
func (a *Assembler) AddMem8Imm8(base Reg, imm uint8) {
	a.memImm8(base, 0x0, imm)
}

// SubMem8Imm8 emits `sub byte [base], imm8`.
func (a *Assembler) SubMem8Imm8(base Reg, imm uint8) {
	a.memImm8(base, 0x5, imm)
}

// CmpMem8Imm8 emits `cmp byte [base], imm8`.
func (a *Assembler) CmpMem8Imm8(base Reg, imm uint8) {
	a.memImm8(base, 0x7, imm)
}

// memImm8 emits the opcode-80 group for `op byte [base], imm8`, selecting
// the operation via the ModRM reg field (/digit).
func (a *Assembler) memImm8(base Reg, digit byte, imm uint8) {
	if base.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0x80, modrm(0x0, digit, base.low3()), imm)
}

// MovRegImm32 emits `mov dst, imm32` (64-bit, sign-extended) — cheaper to
// encode than MovImm64 and enough for the small constants the compiler
// needs (callback kind tags, result codes).
func (a *Assembler) MovRegImm32(dst Reg, imm uint32) {
	a.emit(rex(true, false, false, dst.needsREX()), 0xC7, modrm(0x3, 0x0, dst.low3()))
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], imm)
	a.emit(b[:]...)
}

// AddRegImm32 emits `add dst, imm32` (64-bit, sign-extended).
func (a *Assembler) AddRegImm32(dst Reg, imm uint32) {
	a.regImm32(dst, 0x0, imm)
}

// SubRegImm32 emits `sub dst, imm32` (64-bit, sign-extended).
func (a *Assembler) SubRegImm32(dst Reg, imm uint32) {
	a.regImm32(dst, 0x5, imm)
}

// CmpRegImm32 emits `cmp dst, imm32`.
func (a *Assembler) CmpRegImm32(dst Reg, imm uint32) {
	a.regImm32(dst, 0x7, imm)
}

func (a *Assembler) regImm32(dst Reg, digit byte, imm uint32) {
	a.emit(rex(true, false, false, dst.needsREX()), 0x81, modrm(0x3, digit, dst.low3()))
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], imm)
	a.emit(b[:]...)
}

// CmpRegReg emits `cmp a, b` (64-bit).
func (a *Assembler) CmpRegReg(x, y Reg) {
	a.emit(rex(true, y.needsREX(), false, x.needsREX()), 0x39, modrm(0x3, y.low3(), x.low3()))
}

// XorRegReg emits `xor dst, src` (64-bit) — the teacher's idiom for
// zeroing a register cheaply.
func (a *Assembler) XorRegReg(dst, src Reg) {
	a.emit(rex(true, src.needsREX(), false, dst.needsREX()), 0x31, modrm(0x3, src.low3(), dst.low3()))
}

// CallReg emits `call dst` (indirect, 64-bit register operand).
func (a *Assembler) CallReg(dst Reg) {
	if dst.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xFF, modrm(0x3, 0x2, dst.low3()))
}

// Ret emits `ret`.
func (a *Assembler) Ret() {
	a.emit(0xC3)
}

// JmpLabel emits a near `jmp rel32` to l, patched once l is bound.
func (a *Assembler) JmpLabel(l Label) {
	a.emit(0xE9)
	a.recordFixup(l, 4)
	a.emit(0, 0, 0, 0)
}

// JccLabel emits a near `jcc rel32` to l, patched once l is bound.
func (a *Assembler) JccLabel(cc Cond, l Label) {
	a.emit(0x0F, 0x80+byte(cc))
	a.recordFixup(l, 4)
	a.emit(0, 0, 0, 0)
}

// recordFixup must be called right before the rel32 field's four zero
// bytes are emitted: pos is where those bytes will land.
func (a *Assembler) recordFixup(l Label, fieldLen int) {
	a.fixups = append(a.fixups, fixup{pos: len(a.buf), label: l.id, fieldLen: fieldLen})
}

// Finalize patches every recorded jump with its label's final offset and
// returns the assembled machine code. It is an error to Finalize with an
// unbound label.
func (a *Assembler) Finalize() ([]byte, error) {
	for _, f := range a.fixups {
		target := a.labels[f.label]
		if target < 0 {
			return nil, fmt.Errorf("asm: label %d never bound", f.label)
		}
		rel := int32(target - (f.pos + f.fieldLen))
		binary.LittleEndian.PutUint32(a.buf[f.pos:f.pos+4], uint32(rel))
	}
	return a.buf, nil
}
