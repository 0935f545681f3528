package core

import (
	"testing"

	"mars/redcode"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ addr, size, want int }{
		{0, 10, 0},
		{5, 10, 5},
		{10, 10, 0},
		{-1, 10, 9},
		{-11, 10, 9},
		{25, 10, 5},
	}
	for _, c := range cases {
		if got := Normalize(c.addr, c.size); got != c.want {
			t.Errorf("Normalize(%d, %d) = %d, want %d", c.addr, c.size, got, c.want)
		}
	}
}

func TestFwd(t *testing.T) {
	if got := Fwd(8, 2, 10); got != 4 {
		t.Errorf("Fwd(8, 2, 10) = %d, want 4", got)
	}
	if got := Fwd(2, 8, 10); got != 6 {
		t.Errorf("Fwd(2, 8, 10) = %d, want 6", got)
	}
}

func TestNewFillsDefault(t *testing.T) {
	c := New(5)
	for i := 0; i < 5; i++ {
		if got := c.Get(i); got != redcode.DefaultFill {
			t.Errorf("cell %d = %+v, want DefaultFill", i, got)
		}
	}
}

func TestGetSetWrapsAroundCore(t *testing.T) {
	c := New(4)
	want := redcode.Instruction{Op: redcode.MOV, Mod: redcode.ModI}
	c.Set(6, want) // 6 mod 4 == 2
	if got := c.Get(2); got != want {
		t.Errorf("Get(2) = %+v, want %+v", got, want)
	}
	if got := c.Get(-2); got != want {
		t.Errorf("Get(-2) = %+v, want %+v (wraps to 2)", got, want)
	}
}

func TestSetAFieldBField(t *testing.T) {
	c := New(10)
	c.SetAField(0, 3)
	c.SetBField(0, -1)
	got := c.Get(0)
	if got.AValue != 3 {
		t.Errorf("AValue = %d, want 3", got.AValue)
	}
	if got.BValue != 9 {
		t.Errorf("BValue = %d, want 9 (-1 normalized mod 10)", got.BValue)
	}
}

func TestSetNormalizesFieldValues(t *testing.T) {
	c := New(10)
	c.Set(0, redcode.Instruction{Op: redcode.MOV, Mod: redcode.ModI, AValue: -2, BValue: 13})
	got := c.Get(0)
	if got.AValue != 8 {
		t.Errorf("AValue = %d, want 8 (-2 normalized mod 10)", got.AValue)
	}
	if got.BValue != 3 {
		t.Errorf("BValue = %d, want 3 (13 normalized mod 10)", got.BValue)
	}
}

func TestPlaceNormalizesFieldValues(t *testing.T) {
	c := New(40)
	code := []redcode.Instruction{{Op: redcode.JMP, Mod: redcode.ModB, AValue: -2, BValue: 0}}
	c.Place(0, code)
	if got := c.Get(0).AValue; got != 38 {
		t.Errorf("AValue = %d, want 38 (-2 normalized mod 40)", got)
	}
}

func TestPlaceCopiesNotAliases(t *testing.T) {
	c := New(10)
	code := []redcode.Instruction{{Op: redcode.DAT}, {Op: redcode.MOV}}
	c.Place(3, code)
	code[0] = redcode.Instruction{Op: redcode.SPL}
	if got := c.Get(3); got.Op != redcode.DAT {
		t.Errorf("Place aliased the caller's slice: Get(3) = %+v", got)
	}
}

func TestPlaceWrapsAroundCore(t *testing.T) {
	c := New(4)
	code := []redcode.Instruction{{Op: redcode.DAT}, {Op: redcode.MOV}, {Op: redcode.SPL}}
	c.Place(3, code)
	if c.Get(3).Op != redcode.DAT || c.Get(0).Op != redcode.MOV || c.Get(1).Op != redcode.SPL {
		t.Fatalf("wrap-around placement failed: 3=%v 0=%v 1=%v", c.Get(3).Op, c.Get(0).Op, c.Get(1).Op)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New(3)
	snap := c.Snapshot()
	c.Set(0, redcode.Instruction{Op: redcode.SPL})
	if snap[0].Op == redcode.SPL {
		t.Error("Snapshot aliased the core's backing array")
	}
}
