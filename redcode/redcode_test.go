package redcode

import "testing"

func TestOpcodeString(t *testing.T) {
	for op := DAT; op < numOpcodes; op++ {
		if s := op.String(); s == "" || s == "INVALID_OPCODE" {
			t.Errorf("opcode %d: unexpected String() %q", int(op), s)
		}
	}
	if Opcode(99).String() != "INVALID_OPCODE" {
		t.Error("out-of-range opcode should report INVALID_OPCODE")
	}
}

func TestParseOpcodeCMPSynonym(t *testing.T) {
	op, ok := ParseOpcode("cmp")
	if !ok || op != SEQ {
		t.Fatalf("ParseOpcode(cmp) = %v, %v, want SEQ, true", op, ok)
	}
	op, ok = ParseOpcode("SEQ")
	if !ok || op != SEQ {
		t.Fatalf("ParseOpcode(SEQ) = %v, %v, want SEQ, true", op, ok)
	}
	if _, ok := ParseOpcode("nope"); ok {
		t.Fatal("ParseOpcode(nope) should fail")
	}
}

func TestParseModifier(t *testing.T) {
	for _, name := range []string{"A", "B", "AB", "BA", "F", "X", "I"} {
		if _, ok := ParseModifier(name); !ok {
			t.Errorf("ParseModifier(%q) failed", name)
		}
	}
	if _, ok := ParseModifier("Q"); ok {
		t.Error("ParseModifier(Q) should fail")
	}
}

func TestParseAddrMode(t *testing.T) {
	for _, sigil := range []byte("#$*@{<}>") {
		if _, ok := ParseAddrMode(sigil); !ok {
			t.Errorf("ParseAddrMode(%q) failed", sigil)
		}
	}
	if _, ok := ParseAddrMode('Z'); ok {
		t.Error("ParseAddrMode(Z) should fail")
	}
}

// TestInferModifier checks the ICWS '88 table at a handful of
// representative corners rather than the full cross product, since the
// table's branches are simple enough that a representative sample
// catches any transcription error.
func TestInferModifier(t *testing.T) {
	cases := []struct {
		op          Opcode
		a, b        AddrMode
		want        Modifier
	}{
		{DAT, Direct, Direct, ModF},
		{NOP, Immediate, Immediate, ModF},
		{MOV, Immediate, Direct, ModAB},
		{MOV, Direct, Immediate, ModB},
		{MOV, Direct, Direct, ModI},
		{ADD, Immediate, Direct, ModAB},
		{ADD, Direct, Immediate, ModB},
		{ADD, Direct, Direct, ModF},
		{SLT, Immediate, Direct, ModAB},
		{SLT, Direct, Direct, ModB},
		{LDP, Immediate, Direct, ModAB},
		{STP, Direct, Direct, ModB},
		{JMP, Direct, Direct, ModB},
		{JMZ, Immediate, Immediate, ModB},
		{SPL, Direct, Direct, ModB},
		{SEQ, Immediate, Direct, ModAB},
		{SNE, Direct, Direct, ModI},
	}
	for _, c := range cases {
		if got := InferModifier(c.op, c.a, c.b); got != c.want {
			t.Errorf("InferModifier(%v, %v, %v) = %v, want %v", c.op, c.a, c.b, got, c.want)
		}
	}
}

func TestInstructionString(t *testing.T) {
	i := Instruction{Op: MOV, Mod: ModI, AMode: Immediate, AValue: 1, BMode: Direct, BValue: -2}
	if got, want := i.String(), "MOV.I #1, $-2"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestInstructionEqual(t *testing.T) {
	a := Instruction{Op: DAT, Mod: ModF, AMode: Direct, AValue: 1, BMode: Direct, BValue: 2}
	b := a
	if !a.Equal(b) {
		t.Error("identical instructions should be Equal")
	}
	b.BValue = 3
	if a.Equal(b) {
		t.Error("differing BValue should not be Equal")
	}
}

func TestDefaultFill(t *testing.T) {
	want := Instruction{Op: DAT, Mod: ModF, AMode: Direct, BMode: Direct}
	if DefaultFill != want {
		t.Errorf("DefaultFill = %+v, want %+v", DefaultFill, want)
	}
}

// TestPackUnpackRoundTrip enumerates the full 18*7*8*8 tagged-variant
// space (CMP has no Opcode value of its own) and checks Pack/Unpack are exact inverses on the header fields
// for every combination, plus a scattering of field values.
func TestPackUnpackRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 12345, -12345}
	for op := DAT; op < numOpcodes; op++ {
		for mod := ModA; mod < numModifiers; mod++ {
			for aMode := Immediate; aMode < numAddrModes; aMode++ {
				for bMode := Immediate; bMode < numAddrModes; bMode++ {
					for _, av := range values {
						for _, bv := range values {
							in := Instruction{Op: op, Mod: mod, AMode: aMode, AValue: av, BMode: bMode, BValue: bv}
							out := in.Pack().Unpack()
							if out != in {
								t.Fatalf("roundtrip mismatch: in=%+v out=%+v", in, out)
							}
						}
					}
				}
			}
		}
	}
}

func TestWarriorValidate(t *testing.T) {
	w := Warrior{Code: []Instruction{DefaultFill, DefaultFill}, Start: 0}
	if err := w.Validate(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := Warrior{Start: 0}
	if err := empty.Validate(10); err == nil {
		t.Fatal("empty warrior should fail Validate")
	}

	tooBig := Warrior{Code: make([]Instruction, 5), Start: 0}
	if err := tooBig.Validate(3); err == nil {
		t.Fatal("oversized warrior should fail Validate")
	}

	badStart := Warrior{Code: []Instruction{DefaultFill}, Start: 5}
	if err := badStart.Validate(10); err == nil {
		t.Fatal("out-of-range start should fail Validate")
	}
}
