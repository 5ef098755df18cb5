//go:build amd64 && (linux || darwin)

package nativecall

// Supported reports whether this platform has a trampoline pair.
func Supported() bool { return true }

// jitcall is implemented in trampoline_amd64.s. It calls entry as a plain
// SysV function of (this, memStart, memEnd) — entry's own prologue moves
// them into the register plan (r12/r13/r14/rcx) the rest of the compiler
// package assumes — and returns whatever entry leaves in RAX.
func jitcall(entry, this, memStart, memEnd uintptr) uintptr

// hostTrampoline is implemented in trampoline_amd64.s. It is never called
// from Go — only CALLed directly by JIT-generated machine code, which has
// already placed (this, cellAddr, kind) in DI, SI, DX. Its Go-level
// zero-argument declaration only gives the assembly a Go name;
// trampoline_amd64.s ignores Go's calling convention entirely and reads the
// incoming registers instead.
func hostTrampoline()

// hostTrampolineAddr is implemented in trampoline_amd64.s and returns the
// address of hostTrampoline's assembly body itself, not of the ABI wrapper
// a Go func value for it would point to (that wrapper reloads R14 after
// the call).
func hostTrampolineAddr() uintptr

// TrampolineAddr returns hostTrampoline's code entry point, for the
// compiler to embed as a MOVABS immediate at each `,`/`.` call site.
func TrampolineAddr() uintptr {
	return hostTrampolineAddr()
}
