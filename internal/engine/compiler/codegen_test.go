package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfjit-dev/bfjit/internal/ir"
)

func TestAssemble_emptyProgramStillReturnsAFunctionBody(t *testing.T) {
	code, err := assemble(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, code)
	// Every path ends in a single `ret` (0xC3).
	assert.Equal(t, byte(0xC3), code[len(code)-1])
}

func TestAssemble_balancedProgramCompiles(t *testing.T) {
	prog, err := ir.Compile([]byte("++[>+++<-]>."))
	require.NoError(t, err)
	code, err := assemble(prog)
	require.NoError(t, err)
	assert.NotEmpty(t, code)
}

func TestAssemble_rejectsUnmatchedJnz(t *testing.T) {
	_, err := assemble(ir.Program{{Op: ir.Jnz}})
	assert.Error(t, err)
}

func TestAssemble_rejectsUnclosedJz(t *testing.T) {
	_, err := assemble(ir.Program{{Op: ir.Jz}})
	assert.Error(t, err)
}

func TestAssemble_nestedLoopsCompile(t *testing.T) {
	prog, err := ir.Compile([]byte("[[-]]"))
	require.NoError(t, err)
	code, err := assemble(prog)
	require.NoError(t, err)
	assert.NotEmpty(t, code)
}
