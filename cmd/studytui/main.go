// Command studytui is a terminal client for the same study engine the web
// server drives. It renders the shared view models with lipgloss and keeps
// its snapshots in the same store format, under a fixed local session key.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"memorkartoj/internal/deck"
	"memorkartoj/internal/kvstore"
	"memorkartoj/internal/view"
)

// localSession is the snapshot key prefix for the single terminal session.
const localSession = "local"

func stateKey() string   { return localSession + ".state" }
func contentKey() string { return localSession + ".content" }
func layoutKey() string  { return localSession + ".layout" }

type inputMode int

const (
	modeStudy inputMode = iota
	modeSearch
	modeImport
)

// layoutKeys maps number keys to layouts, in switcher order.
var layoutKeys = map[string]deck.Layout{
	"1": deck.LayoutDefault,
	"2": deck.LayoutPanel,
	"3": deck.LayoutJourney,
	"4": deck.LayoutTable,
	"5": deck.LayoutPanelAlt,
}

type styles struct {
	title    lipgloss.Style
	card     lipgloss.Style
	face     lipgloss.Style
	active   lipgloss.Style
	dim      lipgloss.Style
	starred  lipgloss.Style
	status   lipgloss.Style
	errorBar lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3),
		face:     lipgloss.NewStyle().Bold(true),
		active:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		starred:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		errorBar: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

type model struct {
	sess      *deck.Session
	store     *kvstore.Store
	mode      inputMode
	search    textinput.Model
	importBox textarea.Model
	selected  map[int]bool
	status    string
	width     int
	styles    styles
}

func initialModel(sess *deck.Session, store *kvstore.Store) model {
	search := textinput.New()
	search.Placeholder = "filter cards"
	search.CharLimit = 64

	importBox := textarea.New()
	importBox.Placeholder = "term,definition per line (or tab-separated)"
	importBox.SetHeight(8)

	return model{
		sess:      sess,
		store:     store,
		search:    search,
		importBox: importBox,
		selected:  make(map[int]bool),
		width:     80,
		styles:    newStyles(),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeImport:
			return m.updateImport(msg)
		default:
			return m.updateStudy(msg)
		}
	}
	return m, nil
}

func (m model) updateStudy(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if l, ok := layoutKeys[key]; ok {
		m.sess.SetLayout(l)
		m.saveLayout()
		m.status = fmt.Sprintf("layout: %s", l)
		return m, nil
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "right", "l", "n":
		m.sess.Next()
		m.saveState()
		m.status = ""
	case "left", "h", "p":
		m.sess.Prev()
		m.saveState()
		m.status = ""
	case " ", "enter", "f":
		m.sess.Flip()
	case "s":
		m.sess.ToggleStar(m.sess.Current())
		m.saveState()
	case "x":
		if m.sess.Layout() == deck.LayoutTable {
			i := m.sess.Current()
			m.selected[i] = !m.selected[i]
		}
	case "/":
		if m.sess.Layout() == deck.LayoutDefault {
			m.mode = modeSearch
			m.search.Focus()
			return m, textinput.Blink
		}
	case "i":
		m.mode = modeImport
		m.importBox.Reset()
		m.importBox.Focus()
		return m, textarea.Blink
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeStudy
		m.search.Blur()
		m.search.Reset()
		return m, nil
	case "enter":
		m.mode = modeStudy
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m model) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeStudy
		m.importBox.Blur()
		m.status = "import cancelled"
		return m, nil
	case "ctrl+d":
		n, err := m.sess.Import(m.importBox.Value(), "")
		if err != nil {
			m.status = "no cards found in the pasted text"
			return m, nil
		}
		m.saveContent()
		m.mode = modeStudy
		m.importBox.Blur()
		m.status = fmt.Sprintf("imported %d cards", n)
		return m, nil
	}
	var cmd tea.Cmd
	m.importBox, cmd = m.importBox.Update(msg)
	return m, cmd
}

func (m model) saveState() {
	if err := m.store.Set(stateKey(), m.sess.StateSnapshot()); err != nil {
		log.Printf("save state: %v", err)
	}
}

func (m model) saveContent() {
	if err := m.store.Set(contentKey(), m.sess.ContentSnapshot(time.Now())); err != nil {
		log.Printf("save content: %v", err)
	}
}

func (m model) saveLayout() {
	if err := m.store.Set(layoutKey(), m.sess.LayoutSnapshot()); err != nil {
		log.Printf("save layout: %v", err)
	}
}

func (m model) View() string {
	if m.mode == modeImport {
		return m.viewImport()
	}

	opts := view.Options{Selected: m.selected}
	if m.sess.Layout() == deck.LayoutDefault {
		opts.Query = m.search.Value()
	}
	vm := view.Build(m.sess, opts)

	var b strings.Builder
	b.WriteString(m.styles.title.Render(vm.Title))
	b.WriteString(m.styles.dim.Render(fmt.Sprintf("  [%s]  %d cards, %d starred", vm.Layout, vm.Total, vm.Starred)))
	b.WriteString("\n\n")
	b.WriteString(m.viewPrimary(vm.Primary))
	b.WriteString("\n")

	switch {
	case vm.Default != nil:
		b.WriteString(m.viewDefault(vm.Default))
	case vm.Panel != nil:
		b.WriteString(m.viewPanel(vm.Panel))
	case vm.Journey != nil:
		b.WriteString(m.viewJourney(vm.Journey))
	case vm.Table != nil:
		b.WriteString(m.viewTable(vm.Table))
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.styles.errorBar.Render(m.status))
		b.WriteString("\n")
	}
	hint := "←/→ move · space flip · s star · 1-5 layout · i import · q quit"
	if m.sess.Layout() == deck.LayoutDefault {
		hint = "/ search · " + hint
	}
	if m.sess.Layout() == deck.LayoutTable {
		hint = "x select · " + hint
	}
	b.WriteString(m.styles.status.Render(hint))
	b.WriteString("\n")
	return b.String()
}

func (m model) viewImport() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Import cards"))
	b.WriteString("\n\n")
	b.WriteString(m.importBox.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.status.Render("ctrl+d import · esc cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m model) viewPrimary(p view.Primary) string {
	face := p.Term
	caption := "term"
	if p.Flipped {
		face = p.Definition
		caption = "definition"
	}
	star := " "
	if p.Starred {
		star = m.styles.starred.Render("*")
	}
	body := fmt.Sprintf("%s\n\n%s",
		m.styles.face.Render(face),
		m.styles.dim.Render(fmt.Sprintf("%s · %d/%d %s", caption, p.Position, p.Total, star)))
	return m.styles.card.Render(body) + "\n"
}

func (m model) viewDefault(d *view.DefaultModel) string {
	var b strings.Builder
	if m.mode == modeSearch {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	} else if d.Query != "" {
		b.WriteString(m.styles.dim.Render(fmt.Sprintf("filter: %q (%d hits)", d.Query, len(d.Entries))))
		b.WriteString("\n")
	}
	for _, e := range d.Entries {
		b.WriteString(m.renderEntry(e))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) viewPanel(p *view.PanelModel) string {
	panes := make([]string, 0, len(p.Panes))
	paneWidth := m.width/3 - 2
	if paneWidth < 16 {
		paneWidth = 16
	}
	paneStyle := lipgloss.NewStyle().Width(paneWidth).PaddingRight(2)
	for _, pane := range p.Panes {
		var b strings.Builder
		for _, e := range pane {
			b.WriteString(m.renderEntry(e))
			b.WriteString("\n")
		}
		panes = append(panes, paneStyle.Render(b.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (m model) viewJourney(j *view.JourneyModel) string {
	var b strings.Builder
	for _, step := range j.Steps {
		marker := "( )"
		style := m.styles.dim
		switch step.Status {
		case view.StepDone:
			marker = "(x)"
		case view.StepCurrent:
			marker = "(>)"
			style = m.styles.active
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %d. %s", marker, step.Index+1, step.Label)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) viewTable(t *view.TableModel) string {
	var b strings.Builder
	for _, row := range t.Rows {
		check := "[ ]"
		if row.Selected {
			check = "[x]"
		}
		star := " "
		if row.Starred {
			star = m.styles.starred.Render("*")
		}
		line := fmt.Sprintf("%s %-18s %s %s", check, truncate(row.Term, 18), truncate(row.Definition, 40), star)
		if row.Index == m.sess.Current() {
			b.WriteString(m.styles.active.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderEntry(e view.Entry) string {
	marker := "  "
	if e.Active {
		marker = "> "
	}
	star := ""
	if e.Starred {
		star = " " + m.styles.starred.Render("*")
	}
	line := fmt.Sprintf("%s%s - %s%s", marker, truncate(e.Term, 20), truncate(e.Definition, 40), star)
	if e.Active {
		return m.styles.active.Render(line)
	}
	return line
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// hydrate rebuilds the local session from stored snapshots, content first so
// the cursor wraps against the right deck.
func hydrate(sess *deck.Session, store *kvstore.Store) {
	var content deck.ContentSnapshot
	if store.Get(contentKey(), &content) {
		sess.RestoreContent(content)
	}
	var state deck.StateSnapshot
	if store.Get(stateKey(), &state) {
		sess.RestoreState(state)
	}
	var layout deck.LayoutSnapshot
	if store.Get(layoutKey(), &layout) {
		sess.RestoreLayout(layout)
	}
}

func main() {
	_ = godotenv.Load()

	seedPath := os.Getenv("SEED_DECK")
	if seedPath == "" {
		seedPath = "data/decks/default.yaml"
	}
	d, err := deck.LoadFile(seedPath)
	if err != nil {
		d = deck.Builtin()
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data/sessions"
	}
	store, err := kvstore.New(dataDir, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot open snapshot store: %v\n", err)
		os.Exit(1)
	}

	sess := deck.NewSession(d)
	hydrate(sess, store)

	p := tea.NewProgram(initialModel(sess, store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
