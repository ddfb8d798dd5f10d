package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/poiesic/mentorit/catalog"
	"github.com/poiesic/mentorit/core"
	"github.com/poiesic/mentorit/debounce"
	"github.com/poiesic/mentorit/search"
)

// Discoverer is the TUI-facing subset of search.Searcher.
type Discoverer interface {
	Discover(q search.Query) []core.Mentor
	Similar(focalID string, k int) []core.Mentor
	Facets() catalog.Facets
}

// Config holds the browser settings.
type Config struct {
	// Initial is the query shown on start; its text seeds the input.
	Initial        search.Query
	DebounceWindow time.Duration
	SimilarLimit   int
}

// queryMsg carries a debounced query text into Update.
type queryMsg string

// Model is the Bubble Tea model for the mentor browser.
type Model struct {
	discoverer  Discoverer
	input       textinput.Model
	debouncer   *debounce.Debouncer
	queries     chan string
	query       search.Query
	results     []core.Mentor
	similar     []core.Mentor
	showSimilar bool
	cursor      int
	k           int
	facets      catalog.Facets
	width       int
	height      int
}

// New creates a browser over d. Call Close once the program exits.
func New(d Discoverer, cfg Config) (Model, error) {
	ti := textinput.New()
	ti.Prompt = "search> "
	ti.Placeholder = "name, role, company or skill"
	ti.CharLimit = 0
	ti.SetValue(cfg.Initial.Text)
	ti.Focus()

	queries := make(chan string, 1)
	opts := []debounce.Option{}
	if cfg.DebounceWindow > 0 {
		opts = append(opts, debounce.WithWindow(cfg.DebounceWindow))
	}
	debouncer, err := debounce.New(func(q string) { push(queries, q) }, opts...)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		discoverer: d,
		input:      ti,
		debouncer:  debouncer,
		queries:    queries,
		query:      cfg.Initial,
		k:          cfg.SimilarLimit,
		facets:     d.Facets(),
	}
	m.refresh()
	return m, nil
}

// push delivers q, replacing any value not yet picked up.
func push(ch chan string, q string) {
	for {
		select {
		case ch <- q:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func waitForQuery(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		q, ok := <-ch
		if !ok {
			return nil
		}
		return queryMsg(q)
	}
}

// Close stops the debouncer.
func (m Model) Close() {
	m.debouncer.Stop()
}

// Init starts the cursor blink and the debounced query listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForQuery(m.queries))
}

// Update handles key, window and query events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case queryMsg:
		m.query.Text = string(msg)
		m.refresh()
		return m, waitForQuery(m.queries)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.debouncer.Flush()
			return m, nil
		case "tab":
			m.query.Sort = m.query.Sort.Next()
			m.refresh()
			return m, nil
		case "ctrl+x":
			m.query.Filters = m.query.Filters.Reset()
			m.refresh()
			return m, nil
		case "ctrl+s":
			m.showSimilar = !m.showSimilar
			m.refreshSimilar()
			return m, nil
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.refreshSimilar()
			}
			return m, nil
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.refreshSimilar()
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.debouncer.Trigger(m.input.Value())
	}
	return m, cmd
}

// refresh reruns discovery for the current query.
func (m *Model) refresh() {
	m.results = m.discoverer.Discover(m.query)
	if m.cursor >= len(m.results) {
		m.cursor = 0
	}
	m.refreshSimilar()
}

func (m *Model) refreshSimilar() {
	m.similar = nil
	if !m.showSimilar || len(m.results) == 0 {
		return
	}
	m.similar = m.discoverer.Similar(m.results[m.cursor].ID, m.k)
}

// Results returns the mentors currently listed.
func (m Model) Results() []core.Mentor {
	return m.results
}

// Query returns the query behind the current results.
func (m Model) Query() search.Query {
	return m.query
}

// Selected returns the highlighted mentor, if any.
func (m Model) Selected() (core.Mentor, bool) {
	if len(m.results) == 0 {
		return core.Mentor{}, false
	}
	return m.results[m.cursor], true
}

// Similar returns the similar mentors panel contents.
func (m Model) Similar() []core.Mentor {
	return m.similar
}

// View renders the browser.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("mentorit"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d skills · %d categories · %d countries · $%.0f-$%.0f",
		len(m.facets.Skills), len(m.facets.Categories), len(m.facets.Countries),
		m.facets.MinPrice, m.facets.MaxPrice)))
	b.WriteString("\n")
	b.WriteString(queryBoxStyle.Render(m.input.View()))
	b.WriteString("\n")

	status := fmt.Sprintf("%d results · sort: %s · filters: %d", len(m.results), m.query.Sort, m.query.Filters.ActiveFacets())
	if m.debouncer.Pending() {
		status += " · typing…"
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		b.WriteString(dimStyle.Render("No mentors match."))
	}
	visible := m.visibleResults()
	for i, mentor := range visible {
		line := formatMentor(mentor)
		if mentor.ID == m.results[m.cursor].ID {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(visible)-1 {
			b.WriteString("\n")
		}
	}

	if m.showSimilar && len(m.results) > 0 {
		var panel strings.Builder
		panel.WriteString(headerStyle.Render("Similar to " + m.results[m.cursor].Name))
		if len(m.similar) == 0 {
			panel.WriteString("\n" + dimStyle.Render("No similar mentors."))
		}
		for _, s := range m.similar {
			panel.WriteString("\n" + formatMentor(s))
		}
		b.WriteString("\n\n")
		b.WriteString(similarBoxStyle.Render(panel.String()))
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("enter search · tab sort · ↑/↓ select · ctrl+s similar · ctrl+x clear filters · esc quit"))
	return b.String()
}

// visibleResults windows the result list around the cursor.
func (m Model) visibleResults() []core.Mentor {
	rows := len(m.results)
	if m.height > 0 {
		rows = max(3, m.height-12)
	}
	if rows >= len(m.results) {
		return m.results
	}
	start := min(max(0, m.cursor-rows/2), len(m.results)-rows)
	return m.results[start : start+rows]
}

func formatMentor(m core.Mentor) string {
	var who []string
	if m.Role != "" {
		who = append(who, m.Role)
	}
	if m.Company != "" {
		who = append(who, "@ "+m.Company)
	}
	return fmt.Sprintf("%s  %s  %s  $%.0f  ★%.1f  [%s]",
		nameStyle.Render(m.Name),
		strings.Join(who, " "),
		dimStyle.Render(strings.Join(m.Skills, ", ")),
		m.Price, m.Rating, m.Category)
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	nameStyle       = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	queryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	similarBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
