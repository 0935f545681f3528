package redcode

import (
	"errors"
	"testing"
)

func TestParseSimpleWarrior(t *testing.T) {
	src := "MOV.I $0, $1\nDAT.F #0, #0\n"
	w, err := Parse("imp.red", src, ICWS94Options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Code) != 2 {
		t.Fatalf("len(Code) = %d, want 2", len(w.Code))
	}
	if w.Code[0].Op != MOV || w.Code[0].Mod != ModI {
		t.Errorf("instruction 0 = %+v, want MOV.I", w.Code[0])
	}
	if w.Start != 0 {
		t.Errorf("Start = %d, want 0", w.Start)
	}
}

func TestParseOmittedModifierInferred(t *testing.T) {
	w, err := Parse("imp.red", "MOV $0, $1\n", ICWS88Options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Code[0].Mod != ModI {
		t.Errorf("inferred modifier = %v, want I", w.Code[0].Mod)
	}
}

func TestParseRequiresModifierUnderICWS94(t *testing.T) {
	_, err := Parse("x.red", "MOV $0, $1\n", ICWS94Options)
	if err == nil {
		t.Fatal("expected an error for a missing modifier under ICWS94Options")
	}
	if !errors.Is(err, ErrUnknownModifier) {
		t.Errorf("error = %v, want wrapping ErrUnknownModifier", err)
	}
}

func TestParseORGSetsStart(t *testing.T) {
	src := "ORG 1\nDAT.F #0, #0\nMOV.I $0, $1\n"
	w, err := Parse("x.red", src, ICWS94Options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start != 1 {
		t.Errorf("Start = %d, want 1 from ORG", w.Start)
	}
}

func TestParseLastORGWins(t *testing.T) {
	src := "ORG 0\nORG 1\nDAT.F #0, #0\nMOV.I $0, $1\n"
	w, err := Parse("x.red", src, ICWS94Options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start != 1 {
		t.Errorf("Start = %d, want 1 from the second ORG", w.Start)
	}
}

func TestParseENDArgumentOverridesORG(t *testing.T) {
	src := "ORG 0\nDAT.F #0, #0\nMOV.I $0, $1\nEND 1\n"
	w, err := Parse("x.red", src, ICWS94Options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start != 1 {
		t.Errorf("Start = %d, want 1 from END's argument", w.Start)
	}
}

func TestParsePINLastWins(t *testing.T) {
	src := "PIN 5\nPIN 9\nDAT.F #0, #0\n"
	w, err := Parse("x.red", src, ICWS94Options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.PIN == nil || *w.PIN != 9 {
		t.Errorf("PIN = %v, want 9", w.PIN)
	}
}

func TestParseCommentsAndBlankLinesIgnored(t *testing.T) {
	src := "; a comment\n\nDAT.F #0, #0 ; trailing comment\n\n"
	w, err := Parse("x.red", src, ICWS94Options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Code) != 1 {
		t.Fatalf("len(Code) = %d, want 1", len(w.Code))
	}
}

func TestParseTrailingContentAfterEnd(t *testing.T) {
	src := "DAT.F #0, #0\nEND\nDAT.F #0, #0\n"

	if _, err := Parse("x.red", src, ICWS94Options); err != nil {
		t.Errorf("trailing content should be ignored by default: %v", err)
	}

	_, err := Parse("x.red", src, StrictOptions)
	if err == nil {
		t.Fatal("expected an error under StrictOptions for trailing content")
	}
	if !errors.Is(err, ErrTrailingContent) {
		t.Errorf("error = %v, want wrapping ErrTrailingContent", err)
	}
}

func TestParseMultipleEndArgumentsRejected(t *testing.T) {
	src := "DAT.F #0, #0\nEND 0\nEND 1\n"
	_, err := Parse("x.red", src, ICWS94Options)
	if err == nil {
		t.Fatal("expected an error for two ENDs with arguments")
	}
	if !errors.Is(err, ErrMultipleEnd) {
		t.Errorf("error = %v, want wrapping ErrMultipleEnd", err)
	}
}

func TestParseEmptyWarriorAllowedByDefault(t *testing.T) {
	w, err := Parse("x.red", "", DefaultOptions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Code) != 0 || w.Start != 0 {
		t.Errorf("empty warrior = %+v, want zero-value", w)
	}
}

func TestParseEmptyWarriorRejectedByStrict(t *testing.T) {
	_, err := Parse("x.red", "", StrictOptions)
	if !errors.Is(err, ErrEmptyWarrior) {
		t.Errorf("error = %v, want wrapping ErrEmptyWarrior", err)
	}
}

func TestParseUnknownOpcode(t *testing.T) {
	_, err := Parse("x.red", "XYZ.F #0, #0\n", ICWS94Options)
	if !errors.Is(err, ErrUnknownOpcode) {
		t.Errorf("error = %v, want wrapping ErrUnknownOpcode", err)
	}
}

func TestParseMissingComma(t *testing.T) {
	_, err := Parse("x.red", "DAT.F #0 #0\n", ICWS94Options)
	if !errors.Is(err, ErrMissingComma) {
		t.Errorf("error = %v, want wrapping ErrMissingComma", err)
	}
}

func TestParseStartNormalizedOutOfRange(t *testing.T) {
	src := "ORG 5\nDAT.F #0, #0\nDAT.F #0, #0\n"
	w, err := Parse("x.red", src, ICWS94Options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start != 1 {
		t.Errorf("Start = %d, want 5 mod 2 = 1", w.Start)
	}
}

func TestParseLiteralBeyondInt32RangeSurvivesIntact(t *testing.T) {
	w, err := Parse("x.red", "DAT.F $5000000000, $-5000000000\n", ICWS94Options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Code[0].AValue != 5000000000 {
		t.Errorf("AValue = %d, want 5000000000 unreduced (reduction happens at placement)", w.Code[0].AValue)
	}
	if w.Code[0].BValue != -5000000000 {
		t.Errorf("BValue = %d, want -5000000000 unreduced", w.Code[0].BValue)
	}
}

func TestParseErrorIncludesPosition(t *testing.T) {
	_, err := Parse("foo.red", "\nXYZ.F #0, #0\n", ICWS94Options)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
}
