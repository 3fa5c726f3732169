// Package deck holds the flashcard domain: cards, the per-session study
// state machine, the import parser, and the snapshot types the persistence
// layer serializes. It performs no I/O of its own beyond reading deck files,
// so every state transition is testable without a display surface.
package deck

import (
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Card is one term/definition study unit. Cards are immutable once created;
// imports replace the whole set rather than editing cards in place.
type Card struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
}

// Deck is an ordered card set plus its title. Order is significant: it
// defines the navigation sequence and the display order of every list view.
// Terms are not required to be unique.
type Deck struct {
	Title string `json:"title" yaml:"title"`
	Cards []Card `json:"cards" yaml:"cards"`
}

// builtinCards is the compiled-in fallback set. Sessions constructed from an
// empty deck fall back to these, which keeps the card store non-empty and
// index arithmetic total.
var builtinCards = []Card{
	{Term: "saluton", Definition: "hello"},
	{Term: "dankon", Definition: "thank you"},
	{Term: "bonvolu", Definition: "please"},
	{Term: "jes", Definition: "yes"},
	{Term: "ne", Definition: "no"},
	{Term: "amiko", Definition: "friend"},
	{Term: "lerni", Definition: "to learn"},
	{Term: "karto", Definition: "card"},
	{Term: "vorto", Definition: "word"},
	{Term: "memori", Definition: "to remember"},
}

// BuiltinTitle is the title of the compiled-in fallback deck.
const BuiltinTitle = "Esperanto Basics"

// Builtin returns a fresh copy of the compiled-in default deck.
func Builtin() Deck {
	cards := make([]Card, len(builtinCards))
	copy(cards, builtinCards)
	return Deck{Title: BuiltinTitle, Cards: cards}
}

// LoadFile reads a YAML deck file. Entries missing a term or a definition are
// dropped; the caller decides whether a shrunken deck is worth a warning.
// A file that yields zero usable cards returns ErrNoCards so callers can fall
// back to the builtin set.
func LoadFile(path string) (Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, err
	}
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Deck{}, err
	}
	d.Cards = lo.Filter(d.Cards, func(c Card, _ int) bool {
		return c.Term != "" && c.Definition != ""
	})
	if len(d.Cards) == 0 {
		return Deck{}, ErrNoCards
	}
	if d.Title == "" {
		d.Title = BuiltinTitle
	}
	return d, nil
}
