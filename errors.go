package bfjit

import (
	"github.com/bfjit-dev/bfjit/internal/ir"
	"github.com/bfjit-dev/bfjit/internal/vmerr"
)

// CompileError reports a syntax problem found while compiling source:
// an unclosed `[` or a `]` with no matching `[`, located by line (0-based)
// and column (1-based), counting characters rather than bytes.
type CompileError = ir.CompileError

// CompileErrorKind distinguishes the two ways a program can fail to
// compile.
type CompileErrorKind = ir.CompileErrorKind

const (
	UnclosedLeftBracket    = ir.UnclosedLeftBracket
	UnexpectedRightBracket = ir.UnexpectedRightBracket
)

// RuntimeError reports a fault raised while a program was running.
type RuntimeError = vmerr.RuntimeError

// RuntimeErrorKind distinguishes the ways a running program can fault.
type RuntimeErrorKind = vmerr.RuntimeErrorKind

// PointerOverflow is the only RuntimeErrorKind today: the cell pointer
// tried to move outside the tape.
const PointerOverflow = vmerr.PointerOverflow

// IOError wraps a failure returned by the VM's stdin or stdout.
type IOError = vmerr.IOError
