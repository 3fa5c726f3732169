package deck

import (
	"strings"

	"github.com/samber/lo"
)

// ParseCards turns raw pasted text into cards.
//
// Lines are separated by newlines or semicolons; blank lines are skipped.
// Within a line the delimiter is inferred: a tab wins if one appears before
// any comma, otherwise the comma is used. The first two trimmed parts become
// term and definition; parts beyond the second are ignored. A line missing
// either part is dropped silently. Only a total absence of usable lines is an
// error (ErrNoCards), so the caller can keep the existing store untouched.
func ParseCards(text string) ([]Card, error) {
	lines := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ';'
	})

	cards := lo.FilterMap(lines, func(line string, _ int) (Card, bool) {
		parts := splitLine(line)
		if len(parts) < 2 {
			return Card{}, false
		}
		term := strings.TrimSpace(parts[0])
		definition := strings.TrimSpace(parts[1])
		if term == "" || definition == "" {
			return Card{}, false
		}
		return Card{Term: term, Definition: definition}, true
	})

	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	return cards, nil
}

// splitLine splits on the line's inferred delimiter. Lines containing neither
// a tab nor a comma come back whole and are rejected by the caller.
func splitLine(line string) []string {
	tab := strings.IndexByte(line, '\t')
	comma := strings.IndexByte(line, ',')

	switch {
	case tab < 0 && comma < 0:
		return []string{line}
	case comma < 0, tab >= 0 && tab < comma:
		return strings.Split(line, "\t")
	default:
		return strings.Split(line, ",")
	}
}
