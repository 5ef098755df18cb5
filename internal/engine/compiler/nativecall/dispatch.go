package nativecall

import "unsafe"

// dispatchCallback is called by hostTrampoline (trampoline_amd64.s) with
// the arguments the JIT-generated code placed in DI, SI, DX before its CALL:
// vm is the registry handle, ptr is the address of the current cell inside
// the VM's tape, and kind selects which of the two callbacks to run.
//
// It operates directly on the cell at ptr rather than returning a byte for
// the caller to store, so the generated code at each `,`/`.` site only
// needs to test the result for an error and otherwise fall straight
// through — no register shuffling after the call.
func dispatchCallback(vm, ptr, kind uintptr) uintptr {
	host := lookupHost(vm)
	cell := (*byte)(unsafe.Pointer(ptr))

	switch kind {
	case KindGetByte:
		b, eof, err := host.ReadByte()
		if err != nil {
			return ResultIOError
		}
		if !eof {
			*cell = b
		}
		return ResultOK
	case KindPutByte:
		if err := host.WriteByte(*cell); err != nil {
			return ResultIOError
		}
		return ResultOK
	default:
		return ResultIOError
	}
}
