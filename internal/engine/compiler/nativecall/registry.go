package nativecall

import "sync"

// The host a running Function calls back into is identified to JIT code by
// an opaque integer handle rather than a raw Go pointer smuggled through a
// register. Go's GC makes no promise that an object's address is stable
// forever (today's non-moving collector is an implementation detail, not a
// guarantee), so holding one live across a CALL into hand-written assembly
// would be a latent bug waiting for a future runtime change. A handle into
// this map costs one extra indirection and sidesteps the question entirely
// — the same trick as `golang.org/x/tools/internal/cgo` and cgo.Handle.
var (
	registryMu sync.Mutex
	registry   = map[uintptr]Host{}
	nextHandle uintptr
)

// Host is the callback surface dispatchCallback drives: a byte-oriented I/O
// pair. The tape is reached through the cell address the JIT code passes in,
// not through Host. It is defined here, rather than imported
// from internal/engine, so nativecall has no dependency on the engine
// abstraction beyond the raw addresses it already deals in.
type Host interface {
	ReadByte() (b byte, eof bool, err error)
	WriteByte(b byte) error
}

// Register makes h reachable from native code as the returned handle.
// release must be called once the Function using it has returned.
func Register(h Host) (handle uintptr, release func()) {
	registryMu.Lock()
	defer registryMu.Unlock()
	nextHandle++
	id := nextHandle
	registry[id] = h
	return id, func() {
		registryMu.Lock()
		delete(registry, id)
		registryMu.Unlock()
	}
}

func lookupHost(handle uintptr) Host {
	registryMu.Lock()
	h := registry[handle]
	registryMu.Unlock()
	return h
}
