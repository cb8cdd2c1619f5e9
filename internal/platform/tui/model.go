package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

// resizer is implemented by games that follow a terminal resize without
// restarting.
type resizer interface {
	Resize(width, height int)
}

// statsReporter is implemented by games that count swaps and matches.
type statsReporter interface {
	Stats() (swaps, windows int)
}

// Model drives one game at a fixed tick rate. Keys collected between two
// ticks form the frame of the next tick. The result is stored once per
// finished game.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	store     *storage.Store
	config    core.RuntimeConfig
	frame     core.InputFrame
	state     core.GameState
	keyMapper *KeyMapper
	logger    *log.Logger

	// standalone models own their tea.Program and quit it on Back
	standalone bool
	quitting   bool
	backToMenu bool
	saved      bool
}

// NewModel creates the model for game. A zero seed is replaced by the clock.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// WithLogger returns a copy of the model that logs game events.
func (m Model) WithLogger(logger *log.Logger) Model {
	m.logger = logger
	return m
}

func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.onKey(msg)
	case tea.WindowSizeMsg:
		m.onResize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.onTick()
	}
	return m, nil
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Screenshot) {
		m.screenshot()
		return m, nil
	}

	action, quit := m.keyMapper.MapKey(msg)
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	if action == core.ActionBack {
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	}
	m.frame.Set(action)
	return m, nil
}

func (m *Model) onResize(w, h int) {
	m.config.ScreenW, m.config.ScreenH = w, h
	m.screen.Resize(w, h)

	switch r, ok := m.game.(resizer); {
	case ok:
		r.Resize(w, h)
	case !m.state.GameOver:
		m.game.Reset(m.config)
	}
}

func (m Model) onTick() (tea.Model, tea.Cmd) {
	frame := m.frame
	m.frame.Clear()

	if m.state.GameOver && frame.Has(core.ActionRestart) {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.state = m.game.State()
		m.saved = false
		m.debug("game restarted", "seed", m.config.Seed)
		return m, tickCmd(m.config)
	}

	if !frame.Empty() {
		m.debug("input", "actions", frame.Actions())
	}
	result := m.game.Step(frame)
	m.state = result.State
	for _, ev := range result.Events {
		m.debug(ev)
	}

	if m.state.GameOver && !m.saved {
		m.saved = true
		m.saveResult()
	}
	return m, tickCmd(m.config)
}

func (m *Model) debug(msg string, keyvals ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, append([]any{"game", m.game.ID()}, keyvals...)...)
	}
}

// saveResult stores the finished game. Games without coins are skipped.
func (m *Model) saveResult() {
	if m.store == nil || m.state.Score <= 0 {
		return
	}

	r := storage.Result{
		GameID:     m.game.ID(),
		Coins:      m.state.Score,
		Seed:       m.config.Seed,
		Difficulty: m.config.Difficulty,
	}
	if sr, ok := m.game.(statsReporter); ok {
		r.Swaps, r.Windows = sr.Stats()
	}

	_, err := m.store.SaveResult(r)
	switch {
	case m.logger == nil:
	case err != nil:
		m.logger.Warn("could not save result", "game", r.GameID, "error", err)
	default:
		m.logger.Info("game finished", "game", r.GameID, "coins", r.Coins, "swaps", r.Swaps)
	}
}

// screenshot writes the current frame as plain text to
// ~/.arcade/screenshots. Failures only reach the log.
func (m *Model) screenshot() {
	path, err := m.writeScreenshot()
	switch {
	case m.logger == nil:
	case err != nil:
		m.logger.Warn("screenshot failed", "error", err)
	default:
		m.logger.Info("screenshot saved", "path", path)
	}
}

func (m *Model) writeScreenshot() (string, error) {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	return path, os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting reports whether the player quit the program.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu reports whether the player asked for the menu.
func (m Model) BackToMenu() bool { return m.backToMenu }

// Run plays game in its own program. logger may be nil. It reports whether
// the player asked to go back to the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (backToMenu bool, err error) {
	model := NewModel(game, store, cfg).WithLogger(logger)
	model.standalone = true

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.BackToMenu(), nil
}
