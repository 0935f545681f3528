package redcode

// Packed is the compact encoding of an Instruction: opcode (5 bits),
// modifier (3 bits), A-mode and B-mode (3 bits each) packed into the low
// 14 bits of Header, plus the two field values kept as plain int64s so a
// parsed literal survives intact until placement reduces it.
//
// Pack and Unpack are mutual inverses over the entire value space:
// 18 opcode values (CMP shares SEQ's) * 7 modifiers * 8 a-modes * 8
// b-modes = 8,064 tuples, each of which round-trips exactly (see redcode_test.go's roundtrip test, which
// enumerates the full cross product rather than sampling it).
type Packed struct {
	Header uint16
	AValue int64
	BValue int64
}

const (
	opcodeBits   = 5
	modifierBits = 3
	modeBits     = 3

	opcodeShift   = modifierBits + modeBits + modeBits
	modifierShift = modeBits + modeBits
	aModeShift    = modeBits

	opcodeMask   = (1 << opcodeBits) - 1
	modifierMask = (1 << modifierBits) - 1
	modeMask     = (1 << modeBits) - 1
)

// Pack encodes an Instruction into its compact form.
func (i Instruction) Pack() Packed {
	header := uint16(i.Op)&opcodeMask<<opcodeShift |
		uint16(i.Mod)&modifierMask<<modifierShift |
		uint16(i.AMode)&modeMask<<aModeShift |
		uint16(i.BMode)&modeMask
	return Packed{Header: header, AValue: i.AValue, BValue: i.BValue}
}

// Unpack decodes a Packed value back into an Instruction. The inverse of
// Pack over the full tagged-variant space described above.
func (p Packed) Unpack() Instruction {
	return Instruction{
		Op:     Opcode((p.Header >> opcodeShift) & opcodeMask),
		Mod:    Modifier((p.Header >> modifierShift) & modifierMask),
		AMode:  AddrMode((p.Header >> aModeShift) & modeMask),
		AValue: p.AValue,
		BMode:  AddrMode(p.Header & modeMask),
		BValue: p.BValue,
	}
}
