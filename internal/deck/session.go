package deck

import "slices"

// Session is the mutable study state over one card store: cursor, flip flag,
// starred indices, and the active layout variant. A Session has exactly one
// mutator (the request handler or the TUI event loop), so it carries no
// locking of its own; callers serialize access.
//
// The card store is never empty: construction falls back to the builtin deck
// and Import refuses to replace the store with nothing, which keeps all index
// arithmetic total.
type Session struct {
	title   string
	cards   []Card
	current int
	flipped bool
	starred map[int]struct{}
	layout  Layout
}

// NewSession builds a session over the given deck. An empty deck falls back
// to the compiled-in default set. The cursor starts at the first card, face
// front, nothing starred, default layout.
func NewSession(d Deck) *Session {
	if len(d.Cards) == 0 {
		d = Builtin()
	}
	return &Session{
		title:   d.Title,
		cards:   d.Cards,
		starred: make(map[int]struct{}),
		layout:  LayoutDefault,
	}
}

// Len returns the number of cards in the store.
func (s *Session) Len() int { return len(s.cards) }

// Title returns the deck title.
func (s *Session) Title() string { return s.title }

// Cards returns the card store. Callers must treat the slice as read-only;
// imports replace it wholesale.
func (s *Session) Cards() []Card { return s.cards }

// Current returns the cursor index, always in [0, Len()).
func (s *Session) Current() int { return s.current }

// CurrentCard returns the card under the cursor.
func (s *Session) CurrentCard() Card { return s.cards[s.current] }

// Flipped reports whether the definition face is showing.
func (s *Session) Flipped() bool { return s.flipped }

// Layout returns the active layout variant.
func (s *Session) Layout() Layout { return s.layout }

// IsStarred reports whether index i is starred. Stars survive imports
// verbatim, so an index outside the current store can still report true;
// the views ignore such entries rather than erasing them.
func (s *Session) IsStarred(i int) bool {
	_, ok := s.starred[i]
	return ok
}

// Starred returns the starred indices in ascending order. Stale indices left
// behind by an import are included verbatim; see RestoreState.
func (s *Session) Starred() []int {
	out := make([]int, 0, len(s.starred))
	for i := range s.starred {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// GoTo moves the cursor to index i wrapped circularly into the store, so any
// integer is a valid target: -1 lands on the last card, Len() on the first.
// Moving the cursor always turns the card face-front again.
func (s *Session) GoTo(i int) {
	s.current = wrapIndex(i, len(s.cards))
	s.flipped = false
}

// Next advances the cursor one card, wrapping from the last back to the first.
func (s *Session) Next() { s.GoTo(s.current + 1) }

// Prev moves the cursor back one card, wrapping from the first to the last.
func (s *Session) Prev() { s.GoTo(s.current - 1) }

// Flip toggles which face of the current card is showing. The cursor does not
// move and, unlike navigation, flip state is never persisted.
func (s *Session) Flip() { s.flipped = !s.flipped }

// ToggleStar stars the card at index i, or unstars it if it already was.
// Toggling is its own inverse and never moves the cursor.
func (s *Session) ToggleStar(i int) {
	if _, ok := s.starred[i]; ok {
		delete(s.starred, i)
		return
	}
	s.starred[i] = struct{}{}
}

// SetLayout switches the active variant. Unknown variants are a silent no-op
// and report false; the previously active layout stays in effect.
func (s *Session) SetLayout(l Layout) bool {
	if !l.Valid() {
		return false
	}
	s.layout = l
	return true
}

// Import parses text and, if it yields at least one card, atomically replaces
// the card store: the cursor resets to the first card face-front and a
// non-blank title replaces the deck title. Starred indices are deliberately
// left as they are, matching the source behavior (they may now point at
// unrelated cards; the views tolerate that). On ErrNoCards nothing changes.
// Returns the number of cards imported.
func (s *Session) Import(text, title string) (int, error) {
	cards, err := ParseCards(text)
	if err != nil {
		return 0, err
	}
	s.cards = cards
	s.current = 0
	s.flipped = false
	if title != "" {
		s.title = title
	}
	return len(cards), nil
}

// wrapIndex is a floored modulo: the result is in [0, n) for any i.
func wrapIndex(i, n int) int {
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}
