// Package battle implements the Battle Driver: warrior placement,
// running the engine to an outcome, and the round log consumed by the
// battle-watching TUI.
package battle

// Constants is the configuration surface from spec.md §6, matching
// pMARS's defaults.
type Constants struct {
	CoreSize         int
	CyclesBeforeTie  int
	MaxProcesses     int
	MaxWarriorSize   int
	MinSeparation    int
	PSpaceSize       int
	Warriors         int
}

// DefaultConstants returns pMARS's standard defaults.
func DefaultConstants() Constants {
	return Constants{
		CoreSize:        8000,
		CyclesBeforeTie: 80000,
		MaxProcesses:    8000,
		MaxWarriorSize:  100,
		MinSeparation:   100,
		PSpaceSize:      500,
		Warriors:        2,
	}
}

// Validate rejects configurations that can never place every warrior
// with the required separation, per spec.md §7's "configuration errors
// are rejected at Battle construction" rule.
func (c Constants) Validate() error {
	if c.CoreSize <= 0 {
		return errConfig("CORE_SIZE must be positive")
	}
	if c.MaxWarriorSize <= 0 || c.MaxWarriorSize > c.CoreSize {
		return errConfig("MAX_WARRIOR_SIZE must be positive and fit within CORE_SIZE")
	}
	if c.MinSeparation < 0 {
		return errConfig("MIN_SEPARATION must be non-negative")
	}
	if c.Warriors < 1 {
		return errConfig("WARRIORS must be at least 1")
	}
	if c.Warriors*(c.MaxWarriorSize+c.MinSeparation) > c.CoreSize {
		return errConfig("CORE_SIZE too small to separate all warriors by MIN_SEPARATION")
	}
	if c.MaxProcesses <= 0 {
		return errConfig("MAX_PROCESSES must be positive")
	}
	if c.PSpaceSize < 0 {
		return errConfig("PSPACE_SIZE must be non-negative")
	}
	return nil
}

type configError string

func (e configError) Error() string { return "battle: invalid configuration: " + string(e) }

func errConfig(msg string) error { return configError(msg) }
