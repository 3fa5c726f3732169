// Package view builds display-agnostic view models from a study session.
// Builders are pure functions: the same session and options always produce
// the same model, and every call constructs the model from scratch, so no
// renderer carries hidden state between frames. The HTML templates and the
// terminal client are thin adapters over these models.
package view

import (
	"strings"

	"github.com/samber/lo"

	"memorkartoj/internal/deck"
)

// Journey step statuses, derived from the cursor position.
const (
	StepDone     = "done"
	StepCurrent  = "current"
	StepUpcoming = "upcoming"
)

// Options carries view-local inputs that are not part of session state: the
// navigation flag that drives the primary card's one-shot transition, the
// default layout's search query, and the table layout's row selection. None
// of these are ever persisted.
type Options struct {
	Moved    bool
	Query    string
	Selected map[int]bool
}

// Primary is the big card every layout shares. Term and definition are
// carried verbatim; the adapter decides which face to show from Flipped.
// Animate is set only when the render was triggered by navigation, never by
// a flip, so the slide transition plays once per cursor move.
type Primary struct {
	Index      int
	Position   int // 1-based, for "3 / 10" captions
	Total      int
	Term       string
	Definition string
	Flipped    bool
	Starred    bool
	Animate    bool
}

// Entry is one card in a sidebar or pane list.
type Entry struct {
	Index      int
	Term       string
	Definition string
	Active     bool
	Starred    bool
}

// Step is one stop in the journey layout's label-only list.
type Step struct {
	Index  int
	Label  string
	Status string // StepDone, StepCurrent or StepUpcoming
}

// Row is one table layout row. Selected mirrors the view-local checkbox and
// is independent of Starred.
type Row struct {
	Index      int
	Term       string
	Definition string
	Starred    bool
	Selected   bool
}

// DefaultModel is the searchable flat list of the default layout.
type DefaultModel struct {
	Query   string
	Entries []Entry
}

// PanelModel is the three-pane list shared by panel and panel-alt.
type PanelModel struct {
	Panes [][]Entry
}

// JourneyModel is the journey layout's step list.
type JourneyModel struct {
	Steps []Step
}

// TableModel is the table layout's row list.
type TableModel struct {
	Rows []Row
}

// Model is one complete render of the active layout. Exactly one of the
// variant fields is populated, matching Layout; the others stay nil, which
// keeps the variants mutually exclusive by construction.
type Model struct {
	Layout  deck.Layout
	Layouts []deck.Layout
	Title   string
	Total   int
	Starred int
	Primary Primary
	Default *DefaultModel
	Panel   *PanelModel
	Journey *JourneyModel
	Table   *TableModel
}

// Build renders the session through its active layout variant.
func Build(s *deck.Session, opts Options) Model {
	m := Model{
		Layout:  s.Layout(),
		Layouts: deck.Layouts(),
		Title:   s.Title(),
		Total:   s.Len(),
		Starred: starredInRange(s),
		Primary: BuildPrimary(s, opts.Moved),
	}

	switch s.Layout() {
	case deck.LayoutPanel:
		m.Panel = BuildPanel(s)
	case deck.LayoutPanelAlt:
		m.Panel = BuildPanelAlt(s)
	case deck.LayoutJourney:
		m.Journey = BuildJourney(s)
	case deck.LayoutTable:
		m.Table = BuildTable(s, opts.Selected)
	default:
		m.Default = BuildDefault(s, opts.Query)
	}
	return m
}

// BuildPrimary renders the shared primary card. moved reports whether this
// render follows a navigation, which is the only trigger for the one-shot
// transition.
func BuildPrimary(s *deck.Session, moved bool) Primary {
	card := s.CurrentCard()
	return Primary{
		Index:      s.Current(),
		Position:   s.Current() + 1,
		Total:      s.Len(),
		Term:       card.Term,
		Definition: card.Definition,
		Flipped:    s.Flipped(),
		Starred:    s.IsStarred(s.Current()),
		Animate:    moved,
	}
}

// entries lists every card as an Entry with cursor and star flags applied.
func entries(s *deck.Session) []Entry {
	return lo.Map(s.Cards(), func(c deck.Card, i int) Entry {
		return Entry{
			Index:      i,
			Term:       c.Term,
			Definition: c.Definition,
			Active:     i == s.Current(),
			Starred:    s.IsStarred(i),
		}
	})
}

// starredInRange counts stars that point at a current card. Stale indices
// left behind by an import are excluded from the count but kept in state.
func starredInRange(s *deck.Session) int {
	count := 0
	for i := 0; i < s.Len(); i++ {
		if s.IsStarred(i) {
			count++
		}
	}
	return count
}

// matches reports whether a card matches the search query, case-insensitive,
// over both faces. An empty query matches everything.
func matches(c deck.Card, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Term), q) ||
		strings.Contains(strings.ToLower(c.Definition), q)
}
