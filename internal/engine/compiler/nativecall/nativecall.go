// Package nativecall is the Go/native boundary the compiler engine's
// generated machine code crosses twice per run: once to be entered from Go
// (jitcall), and once per `,`/`.` to call back into the host (hostTrampoline
// / dispatchCallback).
//
// The design favors a from-scratch Plan 9 assembly trampoline pair over two
// tempting shortcuts seen in the pack: golang-asm's obj.Prog builder (the
// teacher's own go.mod marks it legacy and "error-prone to compile"), and
// the "disguise a raw address as a Go func value" trick in
// other_examples/launix-de-memcp's scm-jit (ABI-unstable — it depends on
// exactly how the Go compiler happens to lay out a func value today).
// Instead every boundary-crossing value here is a plain uintptr, handed
// across the call on the stack (Go's ABI0 convention), so there is nothing
// for a register-allocator change to invalidate.
package nativecall

import "errors"

// ErrUnsupportedArch is what the compiler engine's constructor returns on
// any platform other than linux/amd64 and darwin/amd64 — there is no
// trampoline pair to call into there, so callers should fall back to the
// interpreter engine.
var ErrUnsupportedArch = errors.New("nativecall: JIT trampolines are only implemented for amd64 on linux and darwin")

// Callback kinds, passed to hostTrampoline (and on to dispatchCallback) in
// RDX by the JIT-generated code that calls it.
const (
	KindGetByte uintptr = iota
	KindPutByte
)

// Result codes a compiled Function returns in RAX at its final RET.
const (
	ResultOK              uintptr = 0
	ResultPointerOverflow uintptr = 1
	ResultIOError         uintptr = 2
)

// Invoke runs compiled machine code starting at entry over a tape spanning
// [memStart, memEnd), identified to callbacks by the handle this (see
// Register). It returns one of the Result codes above.
func Invoke(entry, this, memStart, memEnd uintptr) uintptr {
	return jitcall(entry, this, memStart, memEnd)
}
