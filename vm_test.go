package bfjit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVM_interpreterHelloWorld(t *testing.T) {
	const helloWorld = `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`

	var out bytes.Buffer
	vm := NewVM(NewConfigInterpreter()).WithStdout(&out).WithStdin(strings.NewReader(""))
	require.NoError(t, vm.Run([]byte(helloWorld)))
	assert.Equal(t, "Hello World!\n", out.String())
}

func TestVM_echoesInputPlusOne(t *testing.T) {
	var out bytes.Buffer
	vm := NewVM(NewConfigInterpreter()).WithStdout(&out).WithStdin(strings.NewReader("A"))
	require.NoError(t, vm.Run([]byte(",+.")))
	assert.Equal(t, "B", out.String())
}

func TestVM_reusedAcrossRunsClearsTape(t *testing.T) {
	var out bytes.Buffer
	vm := NewVM(NewConfigInterpreter()).WithStdout(&out).WithStdin(strings.NewReader(""))

	require.NoError(t, vm.Run([]byte("+++++.")))
	out.Reset()
	require.NoError(t, vm.Run([]byte("."))) // should read a fresh zero cell, not 5
	assert.Equal(t, "\x00", out.String())
}

func TestVM_unclosedBracketIsCompileError(t *testing.T) {
	vm := NewVM(NewConfigInterpreter())
	err := vm.Run([]byte("["))
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, UnclosedLeftBracket, ce.Kind)
}

func TestVM_pointerOverflowIsRuntimeError(t *testing.T) {
	// Walks off the right edge of the fixed 4 MiB tape: +[>+] sets cell 0 to
	// 1, then repeatedly steps right and sets the new cell to 1, which never
	// reads zero, so the loop runs until the pointer faults.
	vm := NewVM(NewConfigInterpreter()).WithStdin(strings.NewReader(""))
	err := vm.Run([]byte("+[>+]"))
	require.Error(t, err)
	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, PointerOverflow, re.Kind)
}

func TestVM_optimizeOffStillProducesSameResult(t *testing.T) {
	var out bytes.Buffer
	vm := NewVM(NewConfigInterpreter().WithOptimize(false)).WithStdout(&out).WithStdin(strings.NewReader(""))
	require.NoError(t, vm.Run([]byte("+++++.")))
	assert.Equal(t, byte(5), out.Bytes()[0])
}
