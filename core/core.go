// Package core implements the fixed-size circular memory array every
// battle runs warriors on.
package core

import "mars/redcode"

// Core is a fixed-size, modularly-addressed array of instructions. The
// engine never accesses a raw index; every address passes through
// Normalize first.
type Core struct {
	cells []redcode.Instruction
}

// New builds a Core of the given size, every cell filled with
// redcode.DefaultFill, matching spec.md §3's initial-fill rule.
func New(size int) *Core {
	cells := make([]redcode.Instruction, size)
	for i := range cells {
		cells[i] = redcode.DefaultFill
	}
	return &Core{cells: cells}
}

// Size returns the core's fixed address space.
func (c *Core) Size() int { return len(c.cells) }

// Normalize reduces addr into [0, size): it takes addr mod size and adds
// size once if that remainder is negative, giving the same result as the
// reference implementation's offset() helper. Unlike that helper this accepts and
// returns plain ints since Go's core sizes never approach overflow.
func Normalize(addr, size int) int {
	if size <= 0 {
		return 0
	}
	m := addr % size
	if m < 0 {
		m += size
	}
	return m
}

// Fwd is the forward-distance helper from spec.md §4.D, used for
// placement-separation checks: the number of steps from a to b going
// forward around the core.
func Fwd(a, b, size int) int {
	return Normalize(b-a, size)
}

// Get reads the instruction at addr, normalizing first.
func (c *Core) Get(addr int) redcode.Instruction {
	return c.cells[Normalize(addr, len(c.cells))]
}

// Set writes instr at addr, normalizing the address and reducing the
// instruction's AValue/BValue into [0, size) the same way SetAField and
// SetBField do, so a whole-instruction copy (MOV.I) can never leave a
// field outside the core's modular range.
func (c *Core) Set(addr int, instr redcode.Instruction) {
	n := len(c.cells)
	instr.AValue = int64(Normalize(int(instr.AValue), n))
	instr.BValue = int64(Normalize(int(instr.BValue), n))
	c.cells[Normalize(addr, n)] = instr
}

// SetAField updates only the A-field of the cell at addr, normalized
// both into [0, size) for the address and for the stored value.
func (c *Core) SetAField(addr int, value int64) {
	idx := Normalize(addr, len(c.cells))
	c.cells[idx].AValue = int64(Normalize(int(value), len(c.cells)))
}

// SetBField updates only the B-field of the cell at addr.
func (c *Core) SetBField(addr int, value int64) {
	idx := Normalize(addr, len(c.cells))
	c.cells[idx].BValue = int64(Normalize(int(value), len(c.cells)))
}

// Place copies code into the core starting at offset (mod size), as
// spec.md §4.G's Battle Driver requires: warrior values are copied, not
// aliased. Each instruction's AValue/BValue is reduced into [0, size)
// first, since a parsed literal (e.g. JMP.B $-2, or one outside
// [-CORE_SIZE, CORE_SIZE) such as $5000000000) arrives as a raw signed
// 64-bit value and must satisfy the same invariant every other write to
// the core does.
func (c *Core) Place(offset int, code []redcode.Instruction) {
	n := len(c.cells)
	for i, instr := range code {
		instr.AValue = int64(Normalize(int(instr.AValue), n))
		instr.BValue = int64(Normalize(int(instr.BValue), n))
		c.cells[Normalize(offset+i, n)] = instr
	}
}

// Snapshot returns a copy of the entire core, used by the event bus's
// dump event and by the round log.
func (c *Core) Snapshot() []redcode.Instruction {
	out := make([]redcode.Instruction, len(c.cells))
	copy(out, c.cells)
	return out
}
