package deck

import "errors"

// Sentinel errors. Check with errors.Is.
var (
	// ErrNoCards reports import text (or a deck file) that produced zero
	// usable cards. The caller leaves the existing card store untouched.
	ErrNoCards = errors.New("deck: no parseable cards")
)
