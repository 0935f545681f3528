// Package cli provides the battle driver's command-line configuration,
// parsed by hand over os.Args the way cli.go parsed corewar's player
// files -- no flag or cobra package is introduced here, matching every
// cmd/ program in the example pack.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"mars/battle"
)

// Config is the fully-parsed command line: battle constants plus the
// warrior source files to load.
type Config struct {
	Constants battle.Constants
	Files     []string
	Offsets   []int
	Rounds    int
	Quiet     bool
}

// ParseArgs parses a battle CLI invocation. Recognized flags:
//
//	-coresize N, -cycles N, -maxprocesses N, -maxlength N,
//	-minsep N, -pspacesize N, -rounds N, -quiet
//
// followed by one or more warrior file paths, optionally each preceded
// by "-at OFFSET" to pin its placement.
func ParseArgs(args []string) (Config, error) {
	cfg := Config{Constants: battle.DefaultConstants(), Rounds: 1}

	pendingOffset := -1
	haveOffset := false

	i := 0
	next := func() (string, error) {
		if i >= len(args) {
			return "", fmt.Errorf("cli: missing argument after %q", args[len(args)-1])
		}
		v := args[i]
		i++
		return v, nil
	}

	for i < len(args) {
		arg := args[i]
		i++
		switch {
		case arg == "-quiet":
			cfg.Quiet = true
		case arg == "-at":
			v, err := next()
			if err != nil {
				return Config{}, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, fmt.Errorf("cli: -at expects an integer: %w", err)
			}
			pendingOffset, haveOffset = n, true
		case strings.HasPrefix(arg, "-") && isIntFlag(arg):
			v, err := next()
			if err != nil {
				return Config{}, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, fmt.Errorf("cli: %s expects an integer: %w", arg, err)
			}
			applyIntFlag(&cfg, arg, n)
		case strings.HasPrefix(arg, "-"):
			return Config{}, fmt.Errorf("cli: unknown flag %q", arg)
		default:
			cfg.Files = append(cfg.Files, arg)
			if haveOffset {
				cfg.Offsets = append(cfg.Offsets, pendingOffset)
				haveOffset = false
			} else {
				cfg.Offsets = append(cfg.Offsets, -1) // caller assigns a default placement
			}
		}
	}

	if len(cfg.Files) == 0 {
		return Config{}, fmt.Errorf("cli: no warrior files given")
	}
	cfg.Constants.Warriors = len(cfg.Files)
	return cfg, nil
}

func isIntFlag(arg string) bool {
	switch arg {
	case "-coresize", "-cycles", "-maxprocesses", "-maxlength", "-minsep", "-pspacesize", "-rounds":
		return true
	}
	return false
}

func applyIntFlag(cfg *Config, flag string, n int) {
	switch flag {
	case "-coresize":
		cfg.Constants.CoreSize = n
	case "-cycles":
		cfg.Constants.CyclesBeforeTie = n
	case "-maxprocesses":
		cfg.Constants.MaxProcesses = n
	case "-maxlength":
		cfg.Constants.MaxWarriorSize = n
	case "-minsep":
		cfg.Constants.MinSeparation = n
	case "-pspacesize":
		cfg.Constants.PSpaceSize = n
	case "-rounds":
		cfg.Rounds = n
	}
}

// ReadFile is a thin wrapper so cmd/mars doesn't import os directly,
// matching cli.go's loadPlayers helper.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cli: reading %q: %w", path, err)
	}
	return string(data), nil
}
