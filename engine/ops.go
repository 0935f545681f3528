package engine

import "mars/redcode"

// opInputs bundles everything one opcode's execution needs: the fetched
// instruction and the already-evaluated A/B operand pointers and
// resolved instructions (spec.md §4.F steps 3-4 happen before dispatch).
type opInputs struct {
	eng        *Engine
	warriorIdx int
	pc         int
	size       int
	instr      redcode.Instruction
	aPtr       int
	aInstr     redcode.Instruction
	bPtr       int
	bInstr     redcode.Instruction
}

// opFunc executes one opcode and reports whether the process died (in
// which case dispatch must not enqueue anything for it).
type opFunc func(opInputs) bool

// ops is built once from a literal, the same shape as vm/vm.go's ops
// map, generalized from corewar's 17 opcodes to Redcode's 19.
var ops = map[redcode.Opcode]opFunc{
	redcode.DAT: opDat,
	redcode.NOP: opNop,
	redcode.MOV: opMov,
	redcode.ADD: opArith(addOp),
	redcode.SUB: opArith(subOp),
	redcode.MUL: opArith(mulOp),
	redcode.DIV: opArith(divOp),
	redcode.MOD: opArith(modOp),
	redcode.JMP: opJmp,
	redcode.JMZ: opJmzJmn(false),
	redcode.JMN: opJmzJmn(true),
	redcode.DJN: opDjn,
	redcode.SPL: opSpl,
	redcode.SLT: opSlt,
	redcode.SEQ: opEq(true),
	redcode.SNE: opEq(false),
	redcode.LDP: opLdp,
	redcode.STP: opStp,
}

func dispatch(in opInputs) (died bool) {
	fn, ok := ops[in.instr.Op]
	if !ok {
		invariantViolation("unknown opcode %v reached dispatch", in.instr.Op)
	}
	return fn(in)
}

func (in opInputs) spawn(pc int) {
	in.eng.Sched.Spawn(in.warriorIdx, normMod(pc, in.size))
	in.eng.emit(Event{Type: EventProcessSpawned, WarriorIdx: in.warriorIdx, PC: normMod(pc, in.size)})
}

func (in opInputs) spawnDefault() { in.spawn(in.pc + 1) }

func (in opInputs) write(addr int, instr redcode.Instruction) {
	in.eng.Core.Set(addr, instr)
	in.eng.emit(Event{Type: EventCoreWrite, WarriorIdx: in.warriorIdx, Addr: normMod(addr, in.size), Instr: instr})
}

func (in opInputs) setA(addr int, v int64) {
	in.eng.Core.SetAField(addr, v)
	in.eng.emit(Event{Type: EventCoreWrite, WarriorIdx: in.warriorIdx, Addr: normMod(addr, in.size)})
}

func (in opInputs) setB(addr int, v int64) {
	in.eng.Core.SetBField(addr, v)
	in.eng.emit(Event{Type: EventCoreWrite, WarriorIdx: in.warriorIdx, Addr: normMod(addr, in.size)})
}

func normMod(v, size int) int {
	m := v % size
	if m < 0 {
		m += size
	}
	return m
}

func opDat(in opInputs) bool {
	return true
}

func opNop(in opInputs) bool {
	in.spawnDefault()
	return false
}

func opMov(in opInputs) bool {
	switch in.instr.Mod {
	case redcode.ModA:
		in.setA(in.bPtr, in.aInstr.AValue)
	case redcode.ModB:
		in.setB(in.bPtr, in.aInstr.BValue)
	case redcode.ModAB:
		in.setB(in.bPtr, in.aInstr.AValue)
	case redcode.ModBA:
		in.setA(in.bPtr, in.aInstr.BValue)
	case redcode.ModF:
		in.setA(in.bPtr, in.aInstr.AValue)
		in.setB(in.bPtr, in.aInstr.BValue)
	case redcode.ModX:
		in.setA(in.bPtr, in.aInstr.BValue)
		in.setB(in.bPtr, in.aInstr.AValue)
	case redcode.ModI:
		in.write(in.bPtr, in.aInstr)
	}
	in.spawnDefault()
	return false
}

// pairOp computes an arithmetic result from (b, a) -- SUB and DIV/MOD
// are b-op-a, per spec.md §4.F.1 and emulation_operations.rs. ok is
// false only for DIV/MOD with a zero divisor.
type pairOp func(b, a int64, n int) (result int64, ok bool)

func addOp(b, a int64, n int) (int64, bool) { return int64(normMod(int(b)+int(a), n)), true }
func subOp(b, a int64, n int) (int64, bool) { return int64(normMod(int(b)-int(a), n)), true }
func mulOp(b, a int64, n int) (int64, bool) { return int64(normMod(int(b)*int(a), n)), true }
func divOp(b, a int64, n int) (int64, bool) {
	if a == 0 {
		return 0, false
	}
	return int64(normMod(int(b)/int(a), n)), true
}
func modOp(b, a int64, n int) (int64, bool) {
	if a == 0 {
		return 0, false
	}
	return int64(normMod(int(b)%int(a), n)), true
}

// opArith builds ADD/SUB/MUL/DIV/MOD's shared handler. ADD/SUB/MUL never
// fail (pairOp always reports ok=true for them); DIV/MOD can fail per
// pair, and F/X/I commit whichever pairs succeeded independently before
// deciding whether the process survives, per emulation_operations.rs.
func opArith(op pairOp) opFunc {
	return func(in opInputs) bool {
		n := in.size
		switch in.instr.Mod {
		case redcode.ModA:
			r, ok := op(in.bInstr.AValue, in.aInstr.AValue, n)
			if !ok {
				return true
			}
			in.setA(in.bPtr, r)
			in.spawnDefault()
			return false
		case redcode.ModB:
			r, ok := op(in.bInstr.BValue, in.aInstr.BValue, n)
			if !ok {
				return true
			}
			in.setB(in.bPtr, r)
			in.spawnDefault()
			return false
		case redcode.ModAB:
			r, ok := op(in.bInstr.BValue, in.aInstr.AValue, n)
			if !ok {
				return true
			}
			in.setB(in.bPtr, r)
			in.spawnDefault()
			return false
		case redcode.ModBA:
			r, ok := op(in.bInstr.AValue, in.aInstr.BValue, n)
			if !ok {
				return true
			}
			in.setA(in.bPtr, r)
			in.spawnDefault()
			return false
		default: // F, X, I: two independent pairs
			var rA, rB int64
			var okA, okB bool
			if in.instr.Mod == redcode.ModX {
				rA, okA = op(in.bInstr.BValue, in.aInstr.AValue, n) // crossed, written to B
				rB, okB = op(in.bInstr.AValue, in.aInstr.BValue, n) // crossed, written to A
				if okA {
					in.setB(in.bPtr, rA)
				}
				if okB {
					in.setA(in.bPtr, rB)
				}
			} else {
				rA, okA = op(in.bInstr.AValue, in.aInstr.AValue, n)
				rB, okB = op(in.bInstr.BValue, in.aInstr.BValue, n)
				if okA {
					in.setA(in.bPtr, rA)
				}
				if okB {
					in.setB(in.bPtr, rB)
				}
			}
			if okA && okB {
				in.spawnDefault()
				return false
			}
			return true
		}
	}
}

func opJmp(in opInputs) bool {
	in.spawn(in.aPtr)
	return false
}

// opJmzJmn builds JMZ (jumpIfNonZero=false) and JMN (jumpIfNonZero=true).
// JMZ jumps when the selected field(s) are all zero; JMN jumps when any
// selected field is non-zero -- not simply JMZ's negation in F/X/I mode,
// per spec.md §4.F.1.
func opJmzJmn(jumpIfNonZero bool) opFunc {
	return func(in opInputs) bool {
		var takeJump bool
		switch in.instr.Mod {
		case redcode.ModA, redcode.ModBA:
			nonZero := in.bInstr.AValue != 0
			takeJump = nonZero == jumpIfNonZero
		case redcode.ModB, redcode.ModAB:
			nonZero := in.bInstr.BValue != 0
			takeJump = nonZero == jumpIfNonZero
		default: // F, X, I
			if jumpIfNonZero {
				takeJump = in.bInstr.AValue != 0 || in.bInstr.BValue != 0
			} else {
				takeJump = in.bInstr.AValue == 0 && in.bInstr.BValue == 0
			}
		}
		if takeJump {
			in.spawn(in.aPtr)
		} else {
			in.spawnDefault()
		}
		return false
	}
}

func opDjn(in opInputs) bool {
	n := in.size
	var nonZero bool
	switch in.instr.Mod {
	case redcode.ModA, redcode.ModBA:
		v := int64(normMod(int(in.bInstr.AValue)-1, n))
		in.setA(in.bPtr, v)
		nonZero = v != 0
	case redcode.ModB, redcode.ModAB:
		v := int64(normMod(int(in.bInstr.BValue)-1, n))
		in.setB(in.bPtr, v)
		nonZero = v != 0
	default: // F, X, I
		va := int64(normMod(int(in.bInstr.AValue)-1, n))
		vb := int64(normMod(int(in.bInstr.BValue)-1, n))
		in.setA(in.bPtr, va)
		in.setB(in.bPtr, vb)
		nonZero = va != 0 || vb != 0
	}
	if nonZero {
		in.spawn(in.aPtr)
	} else {
		in.spawnDefault()
	}
	return false
}

func opSpl(in opInputs) bool {
	in.spawnDefault()
	in.spawn(in.aPtr)
	return false
}

func opSlt(in opInputs) bool {
	var less bool
	switch in.instr.Mod {
	case redcode.ModA:
		less = in.aInstr.AValue < in.bInstr.AValue
	case redcode.ModB:
		less = in.aInstr.BValue < in.bInstr.BValue
	case redcode.ModAB:
		less = in.aInstr.AValue < in.bInstr.BValue
	case redcode.ModBA:
		less = in.aInstr.BValue < in.bInstr.AValue
	case redcode.ModX:
		less = in.aInstr.AValue < in.bInstr.BValue && in.aInstr.BValue < in.bInstr.AValue
	default: // F, I
		less = in.aInstr.AValue < in.bInstr.AValue && in.aInstr.BValue < in.bInstr.BValue
	}
	if less {
		in.spawn(in.pc + 2)
	} else {
		in.spawnDefault()
	}
	return false
}

// opEq builds SEQ/CMP (wantEqual=true) and SNE (wantEqual=false).
func opEq(wantEqual bool) opFunc {
	return func(in opInputs) bool {
		var equal bool
		switch in.instr.Mod {
		case redcode.ModA:
			equal = in.aInstr.AValue == in.bInstr.AValue
		case redcode.ModB:
			equal = in.aInstr.BValue == in.bInstr.BValue
		case redcode.ModAB:
			equal = in.aInstr.AValue == in.bInstr.BValue
		case redcode.ModBA:
			equal = in.aInstr.BValue == in.bInstr.AValue
		case redcode.ModX:
			equal = in.aInstr.AValue == in.bInstr.BValue && in.aInstr.BValue == in.bInstr.AValue
		case redcode.ModI:
			equal = in.aInstr == in.bInstr
		default: // F
			equal = in.aInstr.AValue == in.bInstr.AValue && in.aInstr.BValue == in.bInstr.BValue
		}
		skip := equal == wantEqual
		if skip {
			in.spawn(in.pc + 2)
		} else {
			in.spawnDefault()
		}
		return false
	}
}

func opLdp(in opInputs) bool {
	if in.eng.PSpace == nil {
		in.spawnDefault()
		return false
	}
	// p-space addresses and stored values are already core-normalized
	// (bounded by CORE_SIZE) by the time an instruction reaches dispatch,
	// so narrowing to int32 here loses nothing.
	var addr int32
	switch in.instr.Mod {
	case redcode.ModA, redcode.ModAB:
		addr = int32(in.aInstr.AValue)
	default:
		addr = int32(in.aInstr.BValue)
	}
	val, err := in.eng.PSpace.Read(in.warriorIdx, addr)
	if err != nil {
		in.spawnDefault()
		return false
	}
	switch in.instr.Mod {
	case redcode.ModA, redcode.ModBA:
		in.setA(in.bPtr, int64(val))
	default:
		in.setB(in.bPtr, int64(val))
	}
	in.spawnDefault()
	return false
}

func opStp(in opInputs) bool {
	if in.eng.PSpace == nil {
		in.spawnDefault()
		return false
	}
	var val int32
	switch in.instr.Mod {
	case redcode.ModA, redcode.ModAB:
		val = int32(in.aInstr.AValue)
	default:
		val = int32(in.aInstr.BValue)
	}
	var addr int32
	switch in.instr.Mod {
	case redcode.ModA, redcode.ModBA:
		addr = int32(in.bInstr.AValue)
	default:
		addr = int32(in.bInstr.BValue)
	}
	_ = in.eng.PSpace.Write(in.warriorIdx, addr, val)
	in.spawnDefault()
	return false
}
