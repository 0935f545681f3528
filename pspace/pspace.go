// Package pspace implements per-warrior persistent cell storage shared
// between warriors that declare the same pin, per spec.md §4.F.1's
// LDP/STP semantics and §6's note that p-space buffers are supplied by
// the harness.
package pspace

import "fmt"

// Space holds every pin's buffer and each warrior's pin assignment.
// Grounded on the reference implementation's PSpace type: address 0
// within a buffer is special, tracked per-warrior rather than per-pin.
type Space struct {
	size        int
	warriorPin  map[int]int64
	zeroValues  map[int]int32
	pinBuffers  map[int64][]int32
}

// New allocates an empty Space; size is PSPACE_SIZE from the battle
// constants.
func New(size int) *Space {
	return &Space{
		size:       size,
		warriorPin: make(map[int]int64),
		zeroValues: make(map[int]int32),
		pinBuffers: make(map[int64][]int32),
	}
}

// AddPin allocates a fresh zeroed buffer for pin. Errors if one already
// exists.
func (s *Space) AddPin(pin int64) error {
	if _, ok := s.pinBuffers[pin]; ok {
		return fmt.Errorf("pspace: pin %d already allocated", pin)
	}
	s.pinBuffers[pin] = make([]int32, s.size)
	return nil
}

// Assign attaches warriorIdx to pin's buffer, allocating the pin first if
// necessary, and resets that warrior's private cell 0 to 0.
func (s *Space) Assign(warriorIdx int, pin int64) error {
	if _, ok := s.pinBuffers[pin]; !ok {
		if err := s.AddPin(pin); err != nil {
			return err
		}
	}
	s.warriorPin[warriorIdx] = pin
	s.zeroValues[warriorIdx] = 0
	return nil
}

// Read returns the value at addr (mod size) in warriorIdx's p-space.
// Address 0 is warriorIdx's own private cell, never shared with other
// warriors on the same pin.
func (s *Space) Read(warriorIdx int, addr int32) (int32, error) {
	loc := s.normalize(addr)
	if loc == 0 {
		return s.zeroValues[warriorIdx], nil
	}
	buf, err := s.bufferFor(warriorIdx)
	if err != nil {
		return 0, err
	}
	return buf[loc], nil
}

// Write stores value at addr (mod size) in warriorIdx's p-space. Writes
// to cell 0 are discarded: it is a read-only, harness-maintained record
// of the previous round's outcome, per spec.md §4.F.1.
func (s *Space) Write(warriorIdx int, addr int32, value int32) error {
	loc := s.normalize(addr)
	if loc == 0 {
		return nil
	}
	buf, err := s.bufferFor(warriorIdx)
	if err != nil {
		return err
	}
	buf[loc] = value
	return nil
}

// SetOutcome sets warriorIdx's cell-0 value, the mechanism by which a
// harness records the previous round's result for LDP to observe. Not
// reachable from warrior code: STP discards writes to cell 0.
func (s *Space) SetOutcome(warriorIdx int, value int32) {
	s.zeroValues[warriorIdx] = value
}

func (s *Space) bufferFor(warriorIdx int) ([]int32, error) {
	pin, ok := s.warriorPin[warriorIdx]
	if !ok {
		return nil, fmt.Errorf("pspace: warrior %d has no pin assignment", warriorIdx)
	}
	return s.pinBuffers[pin], nil
}

func (s *Space) normalize(addr int32) int {
	if s.size <= 0 {
		return 0
	}
	m := int(addr) % s.size
	if m < 0 {
		m += s.size
	}
	return m
}
