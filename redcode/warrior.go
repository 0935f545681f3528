package redcode

import "fmt"

// Warrior is an immutable value produced by the parser: a code sequence
// plus its starting offset and optional p-space pin.
type Warrior struct {
	Name   string
	Author string
	Code   []Instruction
	Start  int
	PIN    *int64
}

// Validate checks the two invariants spec.md requires of a Warrior:
// Start falls within the code, and the code doesn't exceed maxSize.
func (w Warrior) Validate(maxSize int) error {
	if len(w.Code) == 0 {
		return fmt.Errorf("%w: warrior has no instructions", ErrEmptyWarrior)
	}
	if len(w.Code) > maxSize {
		return fmt.Errorf("%w: %d instructions exceeds limit %d", ErrTooManyInstructions, len(w.Code), maxSize)
	}
	if w.Start < 0 || w.Start >= len(w.Code) {
		return fmt.Errorf("%w: start offset %d out of range [0,%d)", ErrBadStart, w.Start, len(w.Code))
	}
	return nil
}
