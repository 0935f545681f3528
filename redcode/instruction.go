package redcode

import "fmt"

// Instruction is one Redcode instruction: an opcode, a modifier, and two
// operands, each an addressing mode paired with a field value.
//
// AValue and BValue are stored normalized into [0, coreSize) once placed
// in a Core; the parser itself keeps whatever signed 64-bit value it
// read, and reduction happens at placement time (see core.Normalize).
type Instruction struct {
	Op     Opcode
	Mod    Modifier
	AMode  AddrMode
	AValue int64
	BMode  AddrMode
	BValue int64
}

// String renders the canonical textual form "OP.MOD MA<a>, MB<b>".
func (i Instruction) String() string {
	return fmt.Sprintf("%s.%s %s%d, %s%d", i.Op, i.Mod, i.AMode, i.AValue, i.BMode, i.BValue)
}

// Equal reports structural equality, the same whole-instruction
// comparison SEQ/SNE make under the I modifier.
func (i Instruction) Equal(o Instruction) bool {
	return i == o
}

// DefaultFill is the instruction every unwritten core cell holds:
// DAT.F $0, $0.
var DefaultFill = Instruction{Op: DAT, Mod: ModF, AMode: Direct, BMode: Direct}
