package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

// scoreboardItem is the menu entry that opens the scoreboard.
const scoreboardItem = "scoreboard"

// difficulties are offered on the menu, easiest first.
var difficulties = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
}

var modeBlurbs = map[string]string{
	"match3":         "one resolve pass per swap",
	"match3_cascade": "chains resolve until the board is stable",
}

// MenuItem is one line of the mode menu.
type MenuItem struct {
	GameID string // registry ID, or scoreboardItem
	Title  string
	Blurb  string
	Best   int // best recorded coins, 0 when none
}

// MenuModel picks a mode and a difficulty, or opens the scoreboard.
type MenuModel struct {
	items      []MenuItem
	cursor     int
	difficulty int // index into difficulties
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	quitting   bool
	selected   *MenuItem
}

// NewMenuModel builds the menu. The difficulty starts at cfg.Difficulty, or
// normal when that is unset. store may be nil.
func NewMenuModel(cfg core.RuntimeConfig, store *storage.Store) MenuModel {
	m := MenuModel{
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		difficulty: 1,
	}
	for i, d := range difficulties {
		if config.ParsePreset(cfg.Difficulty) == d {
			m.difficulty = i
		}
	}
	m.config.Difficulty = string(difficulties[m.difficulty])
	m.help.Width = cfg.ScreenW

	for _, g := range registry.List() {
		m.items = append(m.items, MenuItem{GameID: g.ID, Title: g.Title, Blurb: modeBlurbs[g.ID]})
	}
	m.items = append(m.items, MenuItem{GameID: scoreboardItem, Title: "High Scores"})
	m.loadBest()
	return m
}

func (m *MenuModel) loadBest() {
	if m.store == nil {
		return
	}
	for i := range m.items {
		if m.items[i].GameID == scoreboardItem {
			continue
		}
		if best, err := m.store.HighScore(m.items[i].GameID); err == nil {
			m.items[i].Best = best
		}
	}
}

// reopen clears the last choice so an embedded menu can be shown again.
// Cursor and difficulty are kept.
func (m MenuModel) reopen(cfg core.RuntimeConfig) MenuModel {
	cfg.Difficulty = m.config.Difficulty
	m.config = cfg
	m.help.Width = cfg.ScreenW
	m.selected = nil
	m.quitting = false
	m.loadBest()
	return m
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)

	case MenuActionDown:
		m.cursor = (m.cursor + 1) % len(m.items)

	case MenuActionPrev:
		m.setDifficulty(m.difficulty - 1)

	case MenuActionNext:
		m.setDifficulty(m.difficulty + 1)

	case MenuActionSelect:
		item := m.items[m.cursor]
		m.selected = &item
		return m, tea.Quit

	case MenuActionScoreboard:
		m.selected = &MenuItem{GameID: scoreboardItem}
		return m, tea.Quit
	}
	return m, nil
}

func (m *MenuModel) setDifficulty(i int) {
	m.difficulty = core.Clamp(i, 0, len(difficulties)-1)
	m.config.Difficulty = string(difficulties[m.difficulty])
}

func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var list strings.Builder
	for i, item := range m.items {
		if i > 0 {
			list.WriteByte('\n')
		}
		line := "  " + item.Title
		if i == m.cursor {
			line = accentStyle.Render("> " + item.Title)
		}
		if item.Blurb != "" {
			line += dimStyle.Render("  " + item.Blurb)
		}
		if item.Best > 0 {
			line += fmt.Sprintf("  best %d", item.Best)
		}
		list.WriteString(line)
	}

	var diff strings.Builder
	for i, d := range difficulties {
		if i == m.difficulty {
			diff.WriteString(activeTabStyle.Render(string(d)))
		} else {
			diff.WriteString(tabStyle.Render(string(d)))
		}
	}

	width := m.config.ScreenW
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerLines(titleStyle.Render("C O F F E E   M A T C H"), width))
	b.WriteString("\n\n")
	b.WriteString(centerLines("Swap neighbours, line up three, earn coins.", width))
	b.WriteString("\n\n")
	b.WriteString(centerLines(panelStyle.Render(list.String()), width))
	b.WriteString("\n\n")
	b.WriteString(centerLines("Difficulty "+diff.String(), width))
	b.WriteString("\n\n")
	b.WriteString(centerLines(dimStyle.Render(m.help.View(m.keyMapper.MenuKeys())), width))
	b.WriteString("\n")
	b.WriteString(centerLines(dimStyle.Render("In game: "+m.help.View(m.keyMapper.Keys())), width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen item, or nil.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting reports whether the player left the menu without choosing.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the runtime config with the latest size and the chosen
// difficulty.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult is the outcome of a standalone menu program.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu shows the menu in its own program.
func RunMenu(cfg core.RuntimeConfig, store *storage.Store) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(cfg, store), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	res := MenuResult{Config: m.Config()}
	switch sel := m.Selected(); {
	case sel == nil:
		res.Quit = true
	case sel.GameID == scoreboardItem:
		res.WantsScoreboard = true
	default:
		res.GameID = sel.GameID
	}
	return res, nil
}
