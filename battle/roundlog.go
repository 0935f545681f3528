package battle

import "mars/redcode"

// RoundLog records one round's placements, outcome, and final core
// state, the hand-off point to cmd/marswatch. spec.md only requires the
// driver to "report result"; this is the supplemental structure that
// makes that result browsable (see SPEC_FULL.md's Supplemented Features).
type RoundLog struct {
	Warriors       []string
	Offsets        []int
	Lengths        []int // instruction count placed for each warrior
	CyclesExecuted int
	Outcome        Result
	WinnerIdx      int
	DeathCycle     map[int]int // warrior index -> cycle it died, if it died
	FinalCore      []redcode.Instruction
}

// Result classifies a round's outcome.
type Result int

const (
	ResultTie Result = iota
	ResultWin
	ResultPaused
)

func (r Result) String() string {
	switch r {
	case ResultTie:
		return "tie"
	case ResultWin:
		return "win"
	case ResultPaused:
		return "paused"
	default:
		return "unknown"
	}
}
