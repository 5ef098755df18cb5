// Package ir defines the flat intermediate representation the frontend
// produces and the peephole optimizer and engines consume.
package ir

// Op identifies one of the eight bf instructions.
type Op byte

const (
	// AddVal adds Operand (wrapped to 8 bits) to the current cell.
	AddVal Op = iota
	// SubVal subtracts Operand (wrapped to 8 bits) from the current cell.
	SubVal
	// AddPtr advances the cell pointer by Operand, bounds-checked.
	AddPtr
	// SubPtr retreats the cell pointer by Operand, bounds-checked.
	SubPtr
	// GetByte reads one byte from input into the current cell.
	GetByte
	// PutByte writes the current cell to output.
	PutByte
	// Jz is a loop-begin: skip forward past the matching Jnz when the
	// current cell is zero.
	Jz
	// Jnz is a loop-end: jump back to the matching Jz when the current
	// cell is non-zero.
	Jnz
)

// String implements fmt.Stringer, mostly for test failure output.
func (o Op) String() string {
	switch o {
	case AddVal:
		return "AddVal"
	case SubVal:
		return "SubVal"
	case AddPtr:
		return "AddPtr"
	case SubPtr:
		return "SubPtr"
	case GetByte:
		return "GetByte"
	case PutByte:
		return "PutByte"
	case Jz:
		return "Jz"
	case Jnz:
		return "Jnz"
	default:
		return "Op(?)"
	}
}

// Instruction is one IR instruction. Operand is meaningful only for the
// four arithmetic opcodes: the low 8 bits hold the AddVal/SubVal delta
// (wrapped mod 256; 1..=255, or 0 after Optimize folds a run that wraps
// to zero), the full 32 bits hold the AddPtr/SubPtr delta.
// Jz/Jnz carry no operand; pairing is implicit in source-order nesting
// (design note §9(a) in SPEC_FULL.md).
type Instruction struct {
	Op      Op
	Operand uint32
}

// Program is an ordered sequence of IR instructions. Jz and Jnz are always
// balanced and well-nested in any Program produced by Compile.
type Program []Instruction
