package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

// scoreboardLimit caps the rows loaded per mode.
const scoreboardLimit = 100

// ScoreboardKeyMap defines the scoreboard bindings.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Back}
}

func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.NextTab, k.PrevTab}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns the default scoreboard bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next mode")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev mode")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// scoreboardPage holds what was loaded for one mode.
type scoreboardPage struct {
	results []storage.Result
	stats   *storage.GameStats
	err     error
}

// ScoreboardModel shows recorded results, one tab per mode. Each tab is
// read from the store the first time it is shown.
type ScoreboardModel struct {
	games  []registry.GameInfo
	active int
	store  *storage.Store
	pages  map[string]*scoreboardPage
	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap
	width  int
	height int

	quitting  bool
	goingBack bool
	// embedded scoreboards live inside another program and must not quit it
	embedded bool
}

// NewScoreboardModel creates a scoreboard. store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		pages:  make(map[string]*scoreboardPage),
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.table = m.newTable()
	m.show()
	return m
}

func (m *ScoreboardModel) newTable() table.Model {
	dateWidth := min(max(m.width-50, 12), 20)
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Coins", Width: 8},
			{Title: "Swaps", Width: 6},
			{Title: "Matches", Width: 8},
			{Title: "Per swap", Width: 9},
			{Title: "Date", Width: dateWidth},
		}),
		table.WithFocused(true),
		// header, tabs, stats and help take about ten rows
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// page returns the active tab, loading it on first use.
func (m *ScoreboardModel) page() *scoreboardPage {
	if len(m.games) == 0 {
		return &scoreboardPage{}
	}
	id := m.games[m.active].ID
	if p, ok := m.pages[id]; ok {
		return p
	}

	p := &scoreboardPage{}
	if m.store != nil {
		p.results, p.err = m.store.TopResults(id, scoreboardLimit)
		if p.err == nil {
			p.stats, p.err = m.store.GameStats(id)
		}
	}
	m.pages[id] = p
	return p
}

// show fills the table from the active tab.
func (m *ScoreboardModel) show() {
	results := m.page().results
	rows := make([]table.Row, 0, len(results))
	for i, r := range results {
		perSwap := "-"
		if r.Swaps > 0 {
			perSwap = fmt.Sprintf("%.1f", float64(r.Coins)/float64(r.Swaps))
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("#%d", i+1),
			strconv.Itoa(r.Coins),
			strconv.Itoa(r.Swaps),
			strconv.Itoa(r.Windows),
			perSwap,
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) switchTab(delta int) {
	if len(m.games) == 0 {
		return
	}
	m.active = (m.active + delta + len(m.games)) % len(m.games)
	m.show()
}

func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.switchTab(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.switchTab(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.show()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) View() string {
	if m.quitting || (m.goingBack && !m.embedded) {
		return ""
	}

	var tabs strings.Builder
	for i, g := range m.games {
		if i == m.active {
			tabs.WriteString(activeTabStyle.Render(g.Title))
		} else {
			tabs.WriteString(tabStyle.Render(g.Title))
		}
	}

	p := m.page()
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerLines(accentStyle.Render("HIGH SCORES"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerLines(tabs.String(), m.width))
	b.WriteString("\n")

	switch {
	case p.err != nil:
		b.WriteString(centerLines(errorStyle.Render("Could not read results: "+p.err.Error()), m.width))
	case p.stats != nil && p.stats.GamesCount > 0:
		b.WriteString(centerLines(fmt.Sprintf("Games: %d  Best: %d  Avg: %.0f  Matches: %d",
			p.stats.GamesCount, p.stats.HighScore, p.stats.AvgScore, p.stats.TotalWindows), m.width))
	}
	b.WriteString("\n\n")

	content := emptyStyle.Render("No games recorded yet.\nFinish a game to set a high score!")
	if len(p.results) > 0 {
		content = m.table.View()
	}
	b.WriteString(centerLines(panelStyle.Render(content), m.width))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// IsGoingBack reports whether the player asked for the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the player quit the program.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the scoreboard in its own program. It reports whether
// the player asked to go back to the menu.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
