package ir

// Optimize runs a single in-place peephole pass over prog, coalescing each
// maximal run of consecutive identical arithmetic opcodes into one
// instruction with the summed operand. AddVal/SubVal sums wrap at 8 bits;
// AddPtr/SubPtr sums wrap at 32 bits — the same widths the engines use at
// run time, so a fold that would overflow at run time still overflows
// (SPEC_FULL.md §4.1 / spec.md §4.2). A run of length one is folded into
// itself unchanged; a run whose sum wraps to zero still emits the
// instruction with operand 0 rather than eliding it (spec.md §9).
//
// Jz, Jnz, GetByte and PutByte are opaque barriers: they pass through
// unchanged and terminate any in-progress run. Applying Optimize twice is
// equivalent to applying it once.
func Optimize(prog Program) Program {
	write := 0
	for read := 0; read < len(prog); {
		op := prog[read].Op
		switch op {
		case AddVal, SubVal, AddPtr, SubPtr:
			sum := prog[read].Operand
			j := read + 1
			for j < len(prog) && prog[j].Op == op {
				sum = fold(op, sum, prog[j].Operand)
				j++
			}
			prog[write] = Instruction{Op: op, Operand: sum}
			write++
			read = j
		default:
			prog[write] = prog[read]
			write++
			read++
		}
	}
	return prog[:write:write]
}

// fold sums two operands of the same arithmetic opcode, wrapping at the
// width that opcode uses at run time: 8 bits for the cell opcodes, 32 bits
// for the pointer opcodes.
func fold(op Op, a, b uint32) uint32 {
	switch op {
	case AddVal, SubVal:
		return uint32(uint8(a) + uint8(b))
	default: // AddPtr, SubPtr
		return a + b
	}
}
