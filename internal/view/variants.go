package view

import (
	"strings"

	"github.com/samber/lo"

	"memorkartoj/internal/deck"
)

const panelCount = 3

// BuildDefault renders the searchable flat list. The query only narrows the
// list; the primary card and session cursor ignore it entirely.
func BuildDefault(s *deck.Session, query string) *DefaultModel {
	query = TrimQuery(query)
	all := entries(s)
	if query == "" {
		return &DefaultModel{Query: query, Entries: all}
	}
	cards := s.Cards()
	filtered := lo.Filter(all, func(e Entry, _ int) bool {
		return matches(cards[e.Index], query)
	})
	return &DefaultModel{Query: query, Entries: filtered}
}

// BuildPanel renders the three-pane list with cards dealt in reading order:
// the first third of the deck fills the first pane, and so on. Uneven decks
// leave the later panes shorter, possibly empty.
func BuildPanel(s *deck.Session) *PanelModel {
	all := entries(s)
	panes := make([][]Entry, panelCount)
	base := len(all) / panelCount
	rem := len(all) % panelCount
	start := 0
	for p := range panes {
		size := base
		if p < rem {
			size++
		}
		panes[p] = append([]Entry(nil), all[start:start+size]...)
		start += size
	}
	return &PanelModel{Panes: panes}
}

// BuildPanelAlt renders the same three panes but deals cards round-robin, so
// consecutive cards land in different panes. Same data, different grouping.
func BuildPanelAlt(s *deck.Session) *PanelModel {
	panes := make([][]Entry, panelCount)
	for p := range panes {
		panes[p] = []Entry{}
	}
	for i, e := range entries(s) {
		p := i % panelCount
		panes[p] = append(panes[p], e)
	}
	return &PanelModel{Panes: panes}
}

// BuildJourney renders the label-only step list. Status follows the cursor:
// steps before it are done, the cursor's step is current, the rest upcoming.
func BuildJourney(s *deck.Session) *JourneyModel {
	current := s.Current()
	steps := lo.Map(s.Cards(), func(c deck.Card, i int) Step {
		status := StepUpcoming
		switch {
		case i < current:
			status = StepDone
		case i == current:
			status = StepCurrent
		}
		return Step{Index: i, Label: c.Term, Status: status}
	})
	return &JourneyModel{Steps: steps}
}

// BuildTable renders the two-column grid. selected carries the view-local
// checkbox state keyed by card index; indexes outside the deck are ignored.
func BuildTable(s *deck.Session, selected map[int]bool) *TableModel {
	rows := lo.Map(s.Cards(), func(c deck.Card, i int) Row {
		return Row{
			Index:      i,
			Term:       c.Term,
			Definition: c.Definition,
			Starred:    s.IsStarred(i),
			Selected:   selected[i],
		}
	})
	return &TableModel{Rows: rows}
}

// TrimQuery normalizes a raw search input before filtering.
func TrimQuery(query string) string {
	return strings.TrimSpace(query)
}
