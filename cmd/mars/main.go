// Command mars runs a battle between two or more warriors and reports
// the outcome, the battle driver entry point for spec.md §6.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"mars/battle"
	"mars/cli"
	"mars/core"
	"mars/redcode"
)

func main() {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Print(err)
		os.Exit(101)
	}

	warriors, err := loadWarriors(cfg.Files)
	if err != nil {
		log.Print(err)
		os.Exit(102)
	}

	offsets := place(cfg.Offsets, warriors, cfg.Constants)

	b, err := battle.New(cfg.Constants, warriors, offsets)
	if err != nil {
		log.Print(err)
		os.Exit(103)
	}

	logs, err := b.RunRounds(cfg.Rounds, cfg.Constants.PSpaceSize, nil)
	if err != nil {
		log.Print(err)
		os.Exit(104)
	}

	report(warriors, logs, cfg.Quiet)
	os.Exit(exitCode(warriors, logs))
}

func loadWarriors(files []string) ([]redcode.Warrior, error) {
	warriors := make([]redcode.Warrior, len(files))
	for i, path := range files {
		src, err := cli.ReadFile(path)
		if err != nil {
			return nil, err
		}
		opts := redcode.DefaultOptions
		if strings.HasSuffix(path, ".red") {
			opts = redcode.ICWS88Options
		}
		w, err := redcode.Parse(path, src, opts)
		if err != nil {
			return nil, fmt.Errorf("mars: parsing %s: %w", path, err)
		}
		if w.Name == "" {
			w.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		warriors[i] = w
	}
	return warriors, nil
}

// place fills in a default placement for every warrior whose offset
// wasn't pinned with -at: warrior i goes to i*(MAX_WARRIOR_SIZE +
// MIN_SEPARATION) mod CORE_SIZE. These defaults are not checked against
// pinned offsets here; battle.New rejects any pair that is too close.
func place(requested []int, warriors []redcode.Warrior, c battle.Constants) []int {
	offsets := make([]int, len(warriors))
	slot := c.MaxWarriorSize + c.MinSeparation
	for i, o := range requested {
		if o >= 0 {
			offsets[i] = core.Normalize(o, c.CoreSize)
			continue
		}
		offsets[i] = core.Normalize(i*slot, c.CoreSize)
	}
	return offsets
}

func report(warriors []redcode.Warrior, logs []battle.RoundLog, quiet bool) {
	wins := make([]int, len(warriors))
	ties := 0
	for _, l := range logs {
		switch l.Outcome {
		case battle.ResultWin:
			wins[l.WinnerIdx]++
		case battle.ResultTie:
			ties++
		}
	}

	if quiet {
		return
	}
	for i, w := range warriors {
		fmt.Printf("%s: %d win(s)\n", w.Name, wins[i])
	}
	fmt.Printf("ties: %d\n", ties)
}

// exitCode follows spec.md §6: 0 for an overall tie (including no wins
// or a shared lead), 1..K for warrior k winning more rounds than any
// other warrior, and a value above 100 is reserved for
// usage/parse errors (already handled by the early os.Exit calls above).
func exitCode(warriors []redcode.Warrior, logs []battle.RoundLog) int {
	wins := make([]int, len(warriors))
	for _, l := range logs {
		if l.Outcome == battle.ResultWin {
			wins[l.WinnerIdx]++
		}
	}
	best, bestIdx := 0, -1
	tied := false
	for i, n := range wins {
		switch {
		case n > best:
			best, bestIdx, tied = n, i, false
		case n == best && n > 0:
			tied = true
		}
	}
	if bestIdx == -1 || tied {
		return 0
	}
	return bestIdx + 1
}
