//go:build amd64 && (linux || darwin)

package compiler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfjit-dev/bfjit/internal/ir"
)

type fakeHost struct {
	tape []byte
	in   *bytes.Buffer
	out  *bytes.Buffer
}

func newFakeHost(tapeLen int, in string) *fakeHost {
	return &fakeHost{tape: make([]byte, tapeLen), in: bytes.NewBufferString(in), out: &bytes.Buffer{}}
}

func (h *fakeHost) Tape() []byte { return h.tape }

func (h *fakeHost) ReadByte() (byte, bool, error) {
	b, err := h.in.ReadByte()
	if err != nil {
		return 0, true, nil
	}
	return b, false, nil
}

func (h *fakeHost) WriteByte(b byte) error {
	return h.out.WriteByte(b)
}

func run(t *testing.T, src string, tapeLen int, in string) *fakeHost {
	t.Helper()
	prog, err := ir.Compile([]byte(src))
	require.NoError(t, err)
	eng, err := NewEngine()
	require.NoError(t, err)
	fn, err := eng.NewFunction(prog)
	require.NoError(t, err)
	host := newFakeHost(tapeLen, in)
	require.NoError(t, fn.Run(host))
	return host
}

func TestRun_echoesInputPlusOne(t *testing.T) {
	host := run(t, ",+.", 30000, "A")
	assert.Equal(t, "B", host.out.String())
}

func TestRun_nestedLoopsMultiply(t *testing.T) {
	host := run(t, "++[>+++<-]>.", 30000, "")
	assert.Equal(t, byte(6), host.out.Bytes()[0])
}

func TestRun_clearLoopTerminates(t *testing.T) {
	host := newFakeHost(30000, "")
	host.tape[0] = 5
	prog, err := ir.Compile([]byte("[-]"))
	require.NoError(t, err)
	eng, err := NewEngine()
	require.NoError(t, err)
	fn, err := eng.NewFunction(prog)
	require.NoError(t, err)
	require.NoError(t, fn.Run(host))
	assert.Equal(t, byte(0), host.tape[0])
}

func TestRun_pointerOverflowAtUpperBound(t *testing.T) {
	prog, err := ir.Compile([]byte(">"))
	require.NoError(t, err)
	eng, err := NewEngine()
	require.NoError(t, err)
	fn, err := eng.NewFunction(prog)
	require.NoError(t, err)
	err = fn.Run(newFakeHost(1, ""))
	require.Error(t, err)
}

func TestRun_printsHelloWorld(t *testing.T) {
	const helloWorld = `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`
	host := run(t, helloWorld, 30000, "")
	assert.Equal(t, "Hello World!\n", host.out.String())
}
