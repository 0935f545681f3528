// Command marswatch is a terminal browser for the round logs a battle
// produces: one round at a time (n/l and p/h move between rounds), a
// final-core table, an outcome summary, and a warrior list with death
// cycles, wired with tview the way the abandoned
// vm-viewer-2 prototype laid out its panes.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"mars/battle"
	"mars/cli"
	"mars/core"
	"mars/redcode"
)

var colors = []tcell.Color{
	tcell.ColorLightGreen,
	tcell.ColorLightSkyBlue,
	tcell.ColorOrange,
	tcell.ColorPink,
	tcell.ColorYellow,
	tcell.ColorLightGoldenrodYellow,
}

func warriorColor(idx int) tcell.Color {
	return colors[idx%len(colors)]
}

type browser struct {
	app  *tview.Application
	root *tview.Pages

	warriorList *tview.List
	coreView    *tview.Table
	stateView   *tview.TextView
	roundLabel  *tview.TextView

	logs []battle.RoundLog
	cur  int
}

func newBrowser(logs []battle.RoundLog) *browser {
	app := tview.NewApplication().EnableMouse(true)

	warriorList := tview.NewList()
	warriorList.SetBorder(true).SetTitle("Warriors")
	warriorList.SetSelectedFocusOnly(true)

	coreView := tview.NewTable().SetBorders(false)
	coreView.SetBorder(true).SetTitle("Core")

	stateView := tview.NewTextView().SetDynamicColors(true)
	stateView.SetBorder(true).SetTitle("Round")

	roundLabel := tview.NewTextView().SetDynamicColors(true)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow)
	rightPane.
		AddItem(roundLabel, 1, 0, false).
		AddItem(stateView, 0, 2, false).
		AddItem(warriorList, 0, 3, false)

	corePane := tview.NewFlex()
	corePane.AddItem(coreView, 0, 1, true)

	flex := tview.NewFlex().
		AddItem(corePane, 0, 3, true).
		AddItem(rightPane, 0, 1, false)

	pages := tview.NewPages()
	pages.AddPage("main", flex, true, true)

	b := &browser{
		app:         app,
		root:        pages,
		warriorList: warriorList,
		coreView:    coreView,
		stateView:   stateView,
		roundLabel:  roundLabel,
		logs:        logs,
	}

	pages.SetInputCapture(b.handleKey)
	return b
}

func (b *browser) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		b.app.Stop()
		return nil
	}
	switch event.Rune() {
	case 'q':
		b.app.Stop()
		return nil
	case 'n', 'l':
		if b.cur < len(b.logs)-1 {
			b.cur++
			b.draw()
		}
		return nil
	case 'p', 'h':
		if b.cur > 0 {
			b.cur--
			b.draw()
		}
		return nil
	}
	return event
}

func (b *browser) draw() {
	if len(b.logs) == 0 {
		return
	}
	l := b.logs[b.cur]

	b.roundLabel.Clear()
	fmt.Fprintf(b.roundLabel, "round %d/%d", b.cur+1, len(b.logs))

	b.stateView.Clear()
	fmt.Fprintf(b.stateView, "Outcome: %s\n", l.Outcome)
	if l.Outcome == battle.ResultWin {
		fmt.Fprintf(b.stateView, "Winner: %s\n", l.Warriors[l.WinnerIdx])
	}
	fmt.Fprintf(b.stateView, "Cycles executed: %d\n", l.CyclesExecuted)

	b.warriorList.Clear()
	for i, name := range l.Warriors {
		attr := "[" + warriorColor(i).String() + "::]"
		died, ok := l.DeathCycle[i]
		status := "alive"
		if ok {
			status = fmt.Sprintf("died @%d", died)
		}
		b.warriorList.AddItem(fmt.Sprintf("%s%s (offset %d, %s)[:::]", attr, name, l.Offsets[i], status), "", 0, nil)
	}

	b.drawCore(l)
}

func (b *browser) drawCore(l battle.RoundLog) {
	const width = 64
	b.coreView.Clear()
	owner := ownerMap(l)
	for i, instr := range l.FinalCore {
		cell := tview.NewTableCell(shortInstr(instr))
		if w, ok := owner[i]; ok {
			cell.SetTextColor(warriorColor(w))
		} else {
			cell.SetTextColor(tcell.ColorDimGray)
		}
		b.coreView.SetCell(i/width, i%width, cell)
	}
}

// ownerMap assigns every cell within a warrior's placed span to that
// warrior, a rough heuristic since a round's final core mixes in
// whatever was overwritten during play.
func ownerMap(l battle.RoundLog) map[int]int {
	m := map[int]int{}
	size := len(l.FinalCore)
	for i := range l.Offsets {
		start := l.Offsets[i]
		for j := 0; j < l.Lengths[i]; j++ {
			m[core.Normalize(start+j, size)] = i
		}
	}
	return m
}

func shortInstr(instr redcode.Instruction) string {
	s := instr.String()
	if len(s) > 12 {
		s = s[:12]
	}
	return s
}

func (b *browser) Run() error {
	b.draw()
	return b.app.SetRoot(b.root, true).Run()
}

func main() {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("marswatch: %s", err)
	}

	warriors := make([]redcode.Warrior, len(cfg.Files))
	for i, path := range cfg.Files {
		src, err := cli.ReadFile(path)
		if err != nil {
			log.Fatalf("marswatch: %s", err)
		}
		w, err := redcode.Parse(path, src, redcode.DefaultOptions)
		if err != nil {
			log.Fatalf("marswatch: parsing %s: %s", path, err)
		}
		if w.Name == "" {
			w.Name = strings.TrimSuffix(path, ".red")
		}
		warriors[i] = w
	}

	offsets := make([]int, len(warriors))
	slot := cfg.Constants.MaxWarriorSize + cfg.Constants.MinSeparation
	for i := range offsets {
		offsets[i] = core.Normalize(i*slot, cfg.Constants.CoreSize)
	}

	b, err := battle.New(cfg.Constants, warriors, offsets)
	if err != nil {
		log.Fatalf("marswatch: %s", err)
	}
	logs, err := b.RunRounds(cfg.Rounds, cfg.Constants.PSpaceSize, nil)
	if err != nil {
		log.Fatalf("marswatch: %s", err)
	}

	if err := newBrowser(logs).Run(); err != nil {
		log.Fatalf("marswatch: %s", err)
	}
}
