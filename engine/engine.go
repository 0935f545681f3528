// Package engine implements the per-cycle execution algorithm: the
// fetch/evaluate/execute/commit pipeline described in spec.md §4.F, plus
// the round-robin scheduler of §4.E and the observability event bus.
package engine

import (
	"fmt"

	"mars/core"
	"mars/pspace"
	"mars/redcode"
)

// Outcome classifies the result of a Step.
type Outcome int

const (
	// OutcomeContinue means the battle is still running.
	OutcomeContinue Outcome = iota
	// OutcomeWin means exactly one warrior has a non-empty queue.
	OutcomeWin
	// OutcomeDraw means every warrior's queue is empty (simultaneous death).
	OutcomeDraw
)

// StepResult reports what happened after one cycle.
type StepResult struct {
	Outcome    Outcome
	WinnerIdx  int
	DiedWarrior int // -1 unless the cycle killed a process
}

// Engine holds the mutable state a battle's cycles act on: the core, the
// scheduler, and an optional p-space. It owns none of these for longer
// than the battle that constructed it (see battle.Battle).
type Engine struct {
	Core     *core.Core
	Sched    *Scheduler
	PSpace   *pspace.Space
	Events   chan Event
	NumWarriors int
	Cycles   int

	aDefer []int
	bDefer []int
}

// New builds an Engine over an already-placed core and scheduler.
func New(c *core.Core, sched *Scheduler, ps *pspace.Space, numWarriors int) *Engine {
	return &Engine{Core: c, Sched: sched, PSpace: ps, NumWarriors: numWarriors}
}

// ReadCore returns the instruction at addr, mirroring emulator_core.rs's
// read accessor so a TUI or test can inspect engine state without
// reaching into Core directly.
func (e *Engine) ReadCore(addr int) redcode.Instruction {
	return e.Core.Get(addr)
}

// WriteCore stores instr at addr, normalizing through Core.Set.
func (e *Engine) WriteCore(addr int, instr redcode.Instruction) {
	e.Core.Set(addr, instr)
}

// ReadQueue returns a copy of warriorIdx's pending process queue.
func (e *Engine) ReadQueue(warriorIdx int) []int {
	return e.Sched.Queue(warriorIdx)
}

// ReplaceQueue overwrites warriorIdx's process queue wholesale.
func (e *Engine) ReplaceQueue(warriorIdx int, pcs []int) {
	e.Sched.Replace(warriorIdx, pcs)
}

// invariantViolation panics with a message naming the broken invariant;
// recovered and converted to an error only at the battle.Battle.Round
// boundary, per spec.md §7's "bug, aborts the battle loudly" rule.
func invariantViolation(format string, args ...any) {
	panic(fmt.Sprintf("engine invariant violated: "+format, args...))
}

// Step executes exactly one cycle: one warrior's one task. This is the
// literal unit spec.md's glossary calls a Cycle.
func (e *Engine) Step() StepResult {
	idx, ok := e.Sched.Advance()
	if !ok {
		return StepResult{Outcome: OutcomeDraw, WinnerIdx: -1, DiedWarrior: -1}
	}
	pc, ok := e.Sched.Next(idx)
	if !ok {
		invariantViolation("Advance selected warrior %d with an empty queue", idx)
	}
	size := e.Core.Size()
	if pc < 0 || pc >= size {
		invariantViolation("un-normalized program counter %d reached dispatch", pc)
	}

	cached := e.Core.Get(pc)

	aPtr, aInstr := e.evalOperand(pc, cached, cached.AMode, cached.AValue, &e.aDefer)
	bPtr, bInstr := e.evalOperand(pc, cached, cached.BMode, cached.BValue, &e.bDefer)

	in := opInputs{
		eng: e, warriorIdx: idx, pc: pc, size: size,
		instr: cached, aPtr: aPtr, aInstr: aInstr, bPtr: bPtr, bInstr: bInstr,
	}
	died := dispatch(in)

	e.commitDeferred()
	e.Cycles++

	died2 := -1
	if died {
		died2 = idx
		e.emit(Event{Type: EventProcessDied, WarriorIdx: idx, PC: pc, Instr: cached})
	}

	return e.checkTermination(died2)
}

func (e *Engine) checkTermination(died int) StepResult {
	active := e.Sched.ActiveWarriors()
	switch len(active) {
	case 0:
		e.emit(Event{Type: EventRoundEnded, Message: "draw"})
		return StepResult{Outcome: OutcomeDraw, WinnerIdx: -1, DiedWarrior: died}
	case 1:
		if e.NumWarriors > 1 {
			e.emit(Event{Type: EventRoundEnded, WarriorIdx: active[0], Message: "win"})
			return StepResult{Outcome: OutcomeWin, WinnerIdx: active[0], DiedWarrior: died}
		}
		return StepResult{Outcome: OutcomeContinue, WinnerIdx: -1, DiedWarrior: died}
	default:
		return StepResult{Outcome: OutcomeContinue, WinnerIdx: -1, DiedWarrior: died}
	}
}

// evalOperand implements spec.md §4.F steps 3/4 for one operand. Both
// operands share the same logic; only which deferred list and which
// sub-field of the pointed-at cell (AValue vs BValue) differ, and that's
// determined entirely by mode.
func (e *Engine) evalOperand(pc int, cached redcode.Instruction, mode redcode.AddrMode, value int64, deferList *[]int) (ptr int, resolved redcode.Instruction) {
	n := e.Core.Size()
	switch mode {
	case redcode.Immediate:
		return pc, cached
	case redcode.Direct:
		ptr = core.Normalize(pc+int(value), n)
		return ptr, e.Core.Get(ptr)
	case redcode.IndirectA:
		t := core.Normalize(pc+int(value), n)
		ptr = core.Normalize(t+int(e.Core.Get(t).AValue), n)
		return ptr, e.Core.Get(ptr)
	case redcode.IndirectB:
		t := core.Normalize(pc+int(value), n)
		ptr = core.Normalize(t+int(e.Core.Get(t).BValue), n)
		return ptr, e.Core.Get(ptr)
	case redcode.PredecA:
		t := core.Normalize(pc+int(value), n)
		e.Core.SetAField(t, int64(core.Normalize(int(e.Core.Get(t).AValue)-1, n)))
		ptr = core.Normalize(t+int(e.Core.Get(t).AValue), n)
		return ptr, e.Core.Get(ptr)
	case redcode.PredecB:
		t := core.Normalize(pc+int(value), n)
		e.Core.SetBField(t, int64(core.Normalize(int(e.Core.Get(t).BValue)-1, n)))
		ptr = core.Normalize(t+int(e.Core.Get(t).BValue), n)
		return ptr, e.Core.Get(ptr)
	case redcode.PostincA:
		t := core.Normalize(pc+int(value), n)
		*deferList = append(*deferList, t)
		ptr = core.Normalize(t+int(e.Core.Get(t).AValue), n)
		return ptr, e.Core.Get(ptr)
	case redcode.PostincB:
		t := core.Normalize(pc+int(value), n)
		*deferList = append(*deferList, t)
		ptr = core.Normalize(t+int(e.Core.Get(t).BValue), n)
		return ptr, e.Core.Get(ptr)
	default:
		invariantViolation("unknown addressing mode %v reached evaluation", mode)
		return 0, redcode.Instruction{}
	}
}

// commitDeferred drains both post-increment lists, per spec.md §4.F step
// 6. They MUST be empty again once this returns (§4's invariant).
func (e *Engine) commitDeferred() {
	n := e.Core.Size()
	for _, t := range e.aDefer {
		cur := e.Core.Get(t).AValue
		e.Core.SetAField(t, int64(core.Normalize(int(cur)+1, n)))
	}
	for _, t := range e.bDefer {
		cur := e.Core.Get(t).BValue
		e.Core.SetBField(t, int64(core.Normalize(int(cur)+1, n)))
	}
	e.aDefer = e.aDefer[:0]
	e.bDefer = e.bDefer[:0]
}
