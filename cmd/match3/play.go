package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/platform/tui"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a variant",
	Long: `Start playing. Without a variant, a menu lets you pick one or open
the scoreboard; finishing or leaving a game returns to the menu.

Controls:
  Arrows/WASD  - Move cursor
  Space/Enter  - Select a tile, select a neighbour to swap
  ?            - Show a hint
  P            - Pause
  R            - Restart (after game over)
  Esc/B        - Back to menu
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - More moves, four symbols
  normal - Reference rules
  hard   - Fewer moves, six symbols

Examples:
  match3 play
  match3 play match3
  match3 play match3_cascade --difficulty easy
  match3 play match3 --config ./my-rules.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	if len(args) == 1 && !registry.Exists(args[0]) {
		return fmt.Errorf("unknown variant %q, run 'match3 list' to see available variants", args[0])
	}

	// stderr would draw over the alt screen, so only --log-file is honoured
	logger, closeLog, err := newLogger("match3", io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	// Open results storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:    width,
		ScreenH:    height,
		TickRate:   flagFPS,
		Seed:       flagSeed,
		Difficulty: flagDifficulty,
	}

	if len(args) == 1 {
		back, err := playOne(args[0], store, cfg, logger)
		if err != nil || !back {
			return err
		}
	}
	return menuLoop(store, cfg, logger)
}

func playOne(gameID string, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (backToMenu bool, err error) {
	game, err := registry.Create(gameID)
	if err != nil {
		return false, fmt.Errorf("cannot create game: %w", err)
	}
	logger.Info("game started", "game", gameID, "seed", cfg.Seed, "difficulty", cfg.Difficulty)
	return tui.Run(game, store, cfg, logger)
}

// menuLoop shows the menu until the player quits.
func menuLoop(store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	for {
		menuResult, err := tui.RunMenu(cfg, store)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		switch {
		case menuResult.Quit:
			return nil

		case menuResult.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		default:
			// Fresh board for each game unless a seed was pinned
			if flagSeed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}
			back, err := playOne(menuResult.GameID, store, cfg, logger)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}
		}
	}
}
