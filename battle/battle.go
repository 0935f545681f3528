package battle

import (
	"fmt"

	"mars/core"
	"mars/engine"
	"mars/pspace"
	"mars/redcode"
)

// Battle owns one core, scheduler, and p-space for the lifetime of a
// match between a fixed set of warriors, per spec.md §4.G/§3's
// ownership rule.
type Battle struct {
	Constants Constants
	Warriors  []redcode.Warrior
	Offsets   []int

	core   *core.Core
	eng    *engine.Engine
	pspace *pspace.Space
	logs   []RoundLog
}

// New validates the configuration and placement vector and constructs a
// Battle ready to run. It does not place warriors yet; call Round or
// RunRounds for that.
func New(cfg Constants, warriors []redcode.Warrior, offsets []int) (*Battle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(warriors) != len(offsets) {
		return nil, fmt.Errorf("battle: %d warriors but %d offsets", len(warriors), len(offsets))
	}
	if len(warriors) != cfg.Warriors {
		return nil, fmt.Errorf("battle: configured for %d warriors, got %d", cfg.Warriors, len(warriors))
	}
	for i, w := range warriors {
		if err := w.Validate(cfg.MaxWarriorSize); err != nil {
			return nil, fmt.Errorf("battle: warrior %d: %w", i, err)
		}
	}
	for i, o := range offsets {
		if o < 0 || o >= cfg.CoreSize {
			return nil, fmt.Errorf("battle: offset %d for warrior %d out of range [0,%d)", o, i, cfg.CoreSize)
		}
	}
	for i := range warriors {
		for j := range warriors {
			if i == j {
				continue
			}
			endI := core.Normalize(offsets[i]+len(warriors[i].Code), cfg.CoreSize)
			if core.Fwd(endI, offsets[j], cfg.CoreSize) < cfg.MinSeparation {
				return nil, fmt.Errorf("battle: warriors %d and %d violate MIN_SEPARATION", i, j)
			}
		}
	}

	return &Battle{Constants: cfg, Warriors: warriors, Offsets: offsets}, nil
}

// Events exposes the underlying engine's event channel once a round has
// started; nil before the first Round call.
func (b *Battle) Events() chan engine.Event {
	if b.eng == nil {
		return nil
	}
	return b.eng.Events
}

// Logs returns every RoundLog recorded by Round/RunRounds calls so far.
func (b *Battle) Logs() []RoundLog { return b.logs }

// Round plays a single round to termination or stepBudget cycles,
// whichever comes first, and appends a RoundLog. p-space, if non-nil, is
// reused (and its cell 0 updated with the outcome) across rounds.
func (b *Battle) Round(ps *pspace.Space, stepBudget int, events chan engine.Event) (result error) {
	defer func() {
		if r := recover(); r != nil {
			result = fmt.Errorf("battle: invariant violation: %v", r)
		}
	}()

	c := core.New(b.Constants.CoreSize)
	for i, w := range b.Warriors {
		c.Place(b.Offsets[i], w.Code)
	}

	sched := engine.NewScheduler(len(b.Warriors), b.Constants.MaxProcesses)
	for i, w := range b.Warriors {
		sched.Spawn(i, core.Normalize(b.Offsets[i]+w.Start, b.Constants.CoreSize))
	}

	// Pins are assigned only the first time a Space is seen: Assign resets
	// cell 0, which would erase the outcome the previous round recorded.
	if ps != nil && ps != b.pspace {
		for i, w := range b.Warriors {
			pin := int64(i)
			if w.PIN != nil {
				pin = *w.PIN
			}
			if err := ps.Assign(i, pin); err != nil {
				return fmt.Errorf("battle: pspace assignment: %w", err)
			}
		}
	}

	eng := engine.New(c, sched, ps, len(b.Warriors))
	eng.Events = events
	b.eng = eng
	b.core = c
	b.pspace = ps

	lengths := make([]int, len(b.Warriors))
	for i, w := range b.Warriors {
		lengths[i] = len(w.Code)
	}

	log := RoundLog{
		Warriors:   warriorNames(b.Warriors),
		Offsets:    append([]int(nil), b.Offsets...),
		Lengths:    lengths,
		DeathCycle: map[int]int{},
	}

	budget := stepBudget
	if budget <= 0 || budget > b.Constants.CyclesBeforeTie {
		budget = b.Constants.CyclesBeforeTie
	}

	outcome := engine.OutcomeContinue
	winner := -1
	for cycles := 0; cycles < budget; cycles++ {
		res := eng.Step()
		if res.DiedWarrior >= 0 {
			if _, seen := log.DeathCycle[res.DiedWarrior]; !seen {
				log.DeathCycle[res.DiedWarrior] = eng.Cycles
			}
		}
		if res.Outcome != engine.OutcomeContinue {
			outcome = res.Outcome
			winner = res.WinnerIdx
			break
		}
	}

	log.CyclesExecuted = eng.Cycles
	log.FinalCore = c.Snapshot()
	log.WinnerIdx = winner
	eng.EmitCoreDump(log.FinalCore)

	// A budget equal to CyclesBeforeTie that runs out without a win or
	// draw is a tie per spec.md §4.F step 7 ("cycles_executed ==
	// CYCLES_BEFORE_TIE" is itself a terminal outcome). ResultPaused is
	// reserved for a caller-supplied partial stepBudget that ran out
	// short of CyclesBeforeTie, per §5.
	tie := outcome == engine.OutcomeDraw ||
		(outcome == engine.OutcomeContinue && budget >= b.Constants.CyclesBeforeTie)

	switch {
	case outcome == engine.OutcomeWin:
		log.Outcome = ResultWin
		if ps != nil {
			ps.SetOutcome(winner, 1)
			for i := range b.Warriors {
				if i != winner {
					ps.SetOutcome(i, -1)
				}
			}
		}
	case tie:
		log.Outcome = ResultTie
		if ps != nil {
			for i := range b.Warriors {
				ps.SetOutcome(i, 0)
			}
		}
	default:
		log.Outcome = ResultPaused
	}

	b.logs = append(b.logs, log)
	return nil
}

// RunRounds plays n rounds, carrying a shared p-space across them when
// psSize > 0, the engine's exposed mechanism for cross-round persistence
// that spec.md §6 leaves to the harness.
func (b *Battle) RunRounds(n, psSize int, events chan engine.Event) ([]RoundLog, error) {
	var ps *pspace.Space
	if psSize > 0 {
		ps = pspace.New(psSize)
	}
	for i := 0; i < n; i++ {
		if err := b.Round(ps, b.Constants.CyclesBeforeTie, events); err != nil {
			return b.logs, err
		}
	}
	return b.logs, nil
}

func warriorNames(ws []redcode.Warrior) []string {
	names := make([]string, len(ws))
	for i, w := range ws {
		if w.Name != "" {
			names[i] = w.Name
		} else {
			names[i] = fmt.Sprintf("warrior-%d", i)
		}
	}
	return names
}
