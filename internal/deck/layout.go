package deck

// Layout selects which of the five view compositions renders the session.
// Exactly one layout is active at a time; switching layouts replaces the
// previous one rather than stacking.
type Layout string

const (
	LayoutDefault  Layout = "default"
	LayoutPanel    Layout = "panel"
	LayoutJourney  Layout = "journey"
	LayoutTable    Layout = "table"
	LayoutPanelAlt Layout = "panel-alt"
)

// layoutOrder is the display order of the variant switcher.
var layoutOrder = []Layout{LayoutDefault, LayoutPanel, LayoutJourney, LayoutTable, LayoutPanelAlt}

// Layouts returns the known layout variants in display order.
func Layouts() []Layout {
	out := make([]Layout, len(layoutOrder))
	copy(out, layoutOrder)
	return out
}

// Valid reports whether l is one of the five known variants.
func (l Layout) Valid() bool {
	switch l {
	case LayoutDefault, LayoutPanel, LayoutJourney, LayoutTable, LayoutPanelAlt:
		return true
	}
	return false
}

// ParseLayout maps a raw variant string to a Layout. Unknown strings report
// ok=false; callers treat that as a silent no-op, never an error.
func ParseLayout(s string) (Layout, bool) {
	l := Layout(s)
	return l, l.Valid()
}
