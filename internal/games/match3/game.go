package match3

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

// Mode represents the resolution mode of a game.
type Mode string

const (
	ModeClassic Mode = "classic" // one resolve pass per swap
	ModeCascade Mode = "cascade" // resolve until stable
)

const (
	hintTicks    = 120
	messageTicks = 120

	noMatchMessage = "No matching swap on the board"
)

// Package-level variables for config
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// Game adapts a Session to the terminal runtime: cursor input, a delay
// between swap and settle, match flashes and hints.
type Game struct {
	mode  Mode
	rng   *rand.Rand
	tick  uint64
	rules Rules
	fixed *Rules // rules given at construction, bypassing config loading

	session *Session

	cursor       Coord
	selected     Coord
	hasSelection bool

	// Swap waiting for the resolve delay to elapse
	pending      *SwapResult
	pendingTicks int
	delayTicks   int

	flash      Matches
	flashTicks int

	hint          Move
	hintRemaining int

	lastReward int
	message    string
	msgTicks   int

	screenW  int
	screenH  int
	paused   bool
	tooSmall bool
}

// New creates a classic single-pass game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewCascade creates a game that resolves cascades until the board is stable.
func NewCascade() *Game {
	return &Game{mode: ModeCascade}
}

// NewWithRules creates a game that uses rules as given instead of loading
// the YAML config. The mode follows rules.CascadeUntilStable.
func NewWithRules(rules Rules) *Game {
	mode := ModeClassic
	if rules.CascadeUntilStable {
		mode = ModeCascade
	}
	return &Game{mode: mode, fixed: &rules}
}

func init() {
	registry.Register("match3", func() registry.Game {
		return New()
	})
	registry.Register("match3_cascade", func() registry.Game {
		return NewCascade()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeCascade {
		return "match3_cascade"
	}
	return "match3"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeCascade {
		return "Coffee Match (Cascade)"
	}
	return "Coffee Match"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.hasSelection = false
	g.pending = nil
	g.pendingTicks = 0
	g.flash = Matches{}
	g.flashTicks = 0
	g.hintRemaining = 0
	g.lastReward = 0
	g.message = ""
	g.msgTicks = 0

	g.rules = g.loadRules(cfg.Difficulty)
	session, err := NewSession(g.rules, g.rng)
	if err != nil {
		// Config produced unusable rules; fall back to the reference set
		g.rules = g.withMode(DefaultRules())
		session, _ = NewSession(g.rules, g.rng)
		g.setMessage("Invalid config, using defaults")
	}
	g.session = session
	g.delayTicks = cfg.Ticks(g.rules.ResolveDelay)
	g.cursor = C(g.rules.Rows/2, g.rules.Cols/2)

	g.checkScreenSize()
}

// loadRules builds the rules for this game from config and preset. A
// non-empty difficulty overrides the process-wide preset.
func (g *Game) loadRules(difficulty string) Rules {
	if g.fixed != nil {
		return *g.fixed
	}

	cfg, err := config.LoadMatch3(configPath)
	if err != nil {
		cfg = config.DefaultMatch3Config()
	}
	preset := difficultyPreset
	if p := config.ParsePreset(difficulty); p != "" {
		preset = p
	}
	if preset != "" {
		config.ApplyMatch3Preset(&cfg, preset)
	}
	return g.withMode(RulesFromConfig(cfg))
}

func (g *Game) withMode(r Rules) Rules {
	if g.mode == ModeCascade {
		r.CascadeUntilStable = true
	}
	return r
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	minW, minH := g.minSize()
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Resize adapts to a new screen size without restarting the game.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.checkScreenSize()
}

// Stats returns the swaps made and windows matched since the last reset.
func (g *Game) Stats() (swaps, windows int) {
	return g.session.Swaps(), g.session.Windows()
}

// Session exposes the underlying engine session.
func (g *Game) Session() *Session {
	return g.session
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	var events []string

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.decayTimers()

	// Input is ignored while a swap is waiting to settle
	if g.pending != nil {
		g.pendingTicks--
		if g.pendingTicks <= 0 {
			g.settlePending()
		}
		return core.StepResult{State: g.State()}
	}

	if g.session.IsOver() {
		return core.StepResult{State: g.State()}
	}

	switch {
	case in.Has(core.ActionUp):
		g.moveCursor(-1, 0)
	case in.Has(core.ActionDown):
		g.moveCursor(1, 0)
	case in.Has(core.ActionLeft):
		g.moveCursor(0, -1)
	case in.Has(core.ActionRight):
		g.moveCursor(0, 1)
	}

	if in.Has(core.ActionHint) {
		g.showHint()
	}

	if in.Has(core.ActionSelect) {
		if ev := g.selectCell(); ev != "" {
			events = append(events, ev)
		}
	}

	return core.StepResult{State: g.State(), Events: events}
}

func (g *Game) decayTimers() {
	if g.flashTicks > 0 {
		g.flashTicks--
	}
	if g.hintRemaining > 0 {
		g.hintRemaining--
	}
	if g.msgTicks > 0 {
		g.msgTicks--
		if g.msgTicks == 0 {
			g.message = ""
		}
	}
}

func (g *Game) moveCursor(dr, dc int) {
	g.cursor = C(
		core.Clamp(g.cursor.Row+dr, 0, g.rules.Rows-1),
		core.Clamp(g.cursor.Col+dc, 0, g.rules.Cols-1),
	)
}

// selectCell applies the click semantics of the board: select a cell,
// deselect it again, swap with an adjacent selection, or move the selection.
func (g *Game) selectCell() string {
	switch {
	case !g.hasSelection:
		g.selected = g.cursor
		g.hasSelection = true
	case g.selected == g.cursor:
		g.hasSelection = false
	case g.selected.Adjacent(g.cursor):
		g.hasSelection = false
		return g.swap(g.selected, g.cursor)
	default:
		g.selected = g.cursor
	}
	return ""
}

func (g *Game) swap(a, b Coord) string {
	res, err := g.session.RequestSwap(a, b)
	if err != nil {
		g.setMessage(err.Error())
		return ""
	}
	if !res.Applied {
		g.setMessage("No moves left")
		return ""
	}

	g.hintRemaining = 0
	g.pending = &res
	g.pendingTicks = g.delayTicks
	if g.pendingTicks <= 0 {
		g.settlePending()
	}
	return fmt.Sprintf("swap %s %s windows=%d reward=%d", a, b, res.Windows(), res.Reward)
}

// settlePending switches the display from the swapped to the settled grid.
func (g *Game) settlePending() {
	res := g.pending
	g.pending = nil
	g.pendingTicks = 0
	g.lastReward = res.Reward

	if res.Matched() {
		g.flash = res.Passes[0].Matches
		g.flashTicks = max(g.delayTicks, 1)
		if len(res.Passes) > 1 {
			g.setMessage(fmt.Sprintf("Cascade x%d! +%d", len(res.Passes), res.Reward))
		} else {
			g.setMessage(fmt.Sprintf("+%d coins", res.Reward))
		}
	}
	// The board is never reshuffled, so only warn
	if !g.session.IsOver() && !HasMoves(res.Settled) {
		g.setMessage(noMatchMessage)
	}
}

func (g *Game) showHint() {
	if m, ok := Hint(g.session.grid); ok {
		g.hint = m
		g.hintRemaining = hintTicks
		return
	}
	g.setMessage(noMatchMessage)
}

func (g *Game) setMessage(msg string) {
	g.message = msg
	g.msgTicks = messageTicks
}

// displayGrid is the grid the player should currently see.
func (g *Game) displayGrid() *Grid {
	if g.pending != nil {
		return g.pending.Swapped
	}
	return g.session.grid
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.session.Coins(),
		GameOver: g.session.IsOver() && g.pending == nil,
		Paused:   g.paused || g.tooSmall,
	}
}
