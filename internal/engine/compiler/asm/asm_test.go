package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRet_singleByte(t *testing.T) {
	a := New()
	a.Ret()
	code, err := a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC3}, code)
}

func TestPushPop_lowAndExtendedRegisters(t *testing.T) {
	a := New()
	a.PushReg(RCX) // no REX needed
	a.PushReg(R12) // needs REX.B
	a.PopReg(R12)
	a.PopReg(RCX)
	code, err := a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x51,       // push rcx
		0x41, 0x54, // push r12
		0x41, 0x5C, // pop r12
		0x59,       // pop rcx
	}, code)
}

func TestMovImm64_encodesLittleEndianImmediate(t *testing.T) {
	a := New()
	a.MovImm64(RAX, 0x0102030405060708)
	code, err := a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x48, 0xB8,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}, code)
}

func TestJmpLabel_backwardBranch(t *testing.T) {
	a := New()
	top := a.NewLabel()
	a.Bind(top)
	a.Ret() // 1 byte filler so the branch isn't zero-length
	a.JmpLabel(top)
	code, err := a.Finalize()
	require.NoError(t, err)
	// jmp encodes as E9 + rel32; rel32 = target(0) - (pos_of_rel32 + 4).
	assert.Equal(t, byte(0xE9), code[1])
	rel := int32(uint32(code[2]) | uint32(code[3])<<8 | uint32(code[4])<<16 | uint32(code[5])<<24)
	assert.Equal(t, int32(-6), rel)
}

func TestJccLabel_forwardBranch(t *testing.T) {
	a := New()
	end := a.NewLabel()
	a.JccLabel(CondEqual, end)
	a.Ret()
	a.Bind(end)
	code, err := a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0F, 0x84}, code[0:2])
	rel := int32(uint32(code[2]) | uint32(code[3])<<8 | uint32(code[4])<<16 | uint32(code[5])<<24)
	assert.Equal(t, int32(1), rel) // skip over the single `ret` byte
}

func TestFinalize_errorsOnUnboundLabel(t *testing.T) {
	a := New()
	l := a.NewLabel()
	a.JmpLabel(l)
	_, err := a.Finalize()
	assert.Error(t, err)
}

func TestMemImm8_usesModRMDigitToSelectOp(t *testing.T) {
	a := New()
	a.AddMem8Imm8(RCX, 3)
	a.SubMem8Imm8(RCX, 3)
	a.CmpMem8Imm8(RCX, 0)
	code, err := a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x80, 0x01, 0x03, // add byte [rcx], 3   (ModRM reg=/0)
		0x80, 0x29, 0x03, // sub byte [rcx], 3   (ModRM reg=/5)
		0x80, 0x39, 0x00, // cmp byte [rcx], 0   (ModRM reg=/7)
	}, code)
}
