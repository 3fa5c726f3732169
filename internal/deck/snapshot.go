package deck

import "time"

// StateSnapshot is the persisted slice of session state: the cursor and the
// starred indices. It is written after every navigation or star toggle. Flip
// state and layout are deliberately absent: flips are never persisted, and
// the layout is its own independent snapshot.
type StateSnapshot struct {
	CurrentIndex int   `json:"currentIndex"`
	Starred      []int `json:"starredIndices"`
}

// ContentSnapshot is the persisted card store, written only after a
// successful import. SavedAt records the import time.
type ContentSnapshot struct {
	Title   string    `json:"title"`
	Cards   []Card    `json:"cards"`
	SavedAt time.Time `json:"savedAt"`
}

// LayoutSnapshot is the persisted layout choice, written every time the
// layout changes.
type LayoutSnapshot struct {
	Layout string `json:"layout"`
}

// StateSnapshot captures the cursor and starred indices for persistence.
func (s *Session) StateSnapshot() StateSnapshot {
	return StateSnapshot{
		CurrentIndex: s.current,
		Starred:      s.Starred(),
	}
}

// ContentSnapshot captures the card store and title for persistence.
func (s *Session) ContentSnapshot(now time.Time) ContentSnapshot {
	cards := make([]Card, len(s.cards))
	copy(cards, s.cards)
	return ContentSnapshot{
		Title:   s.title,
		Cards:   cards,
		SavedAt: now,
	}
}

// RestoreState applies a persisted state snapshot during hydration. The
// stored cursor is wrapped into the current store so a snapshot taken against
// a larger deck still lands on a valid card. Starred indices are restored
// verbatim, including any that no longer point inside the store: imports do
// not migrate star state, and hydration does not second-guess that.
func (s *Session) RestoreState(sn StateSnapshot) {
	s.current = wrapIndex(sn.CurrentIndex, len(s.cards))
	s.starred = make(map[int]struct{}, len(sn.Starred))
	for _, i := range sn.Starred {
		s.starred[i] = struct{}{}
	}
}

// RestoreContent applies a persisted content snapshot during hydration,
// replacing the card store the way an import would. An empty snapshot is
// ignored so the session keeps its non-empty guarantee. Restore order at
// startup is content first, then state, then layout.
func (s *Session) RestoreContent(sn ContentSnapshot) {
	if len(sn.Cards) == 0 {
		return
	}
	s.cards = sn.Cards
	s.current = 0
	s.flipped = false
	if sn.Title != "" {
		s.title = sn.Title
	}
}

// LayoutSnapshot captures the layout choice for persistence.
func (s *Session) LayoutSnapshot() LayoutSnapshot {
	return LayoutSnapshot{Layout: string(s.layout)}
}

// RestoreLayout applies a persisted layout snapshot during hydration. A name
// that is not a known layout leaves the default in place.
func (s *Session) RestoreLayout(sn LayoutSnapshot) {
	if l, ok := ParseLayout(sn.Layout); ok {
		s.layout = l
	}
}
