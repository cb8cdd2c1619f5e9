// match3 is a coffee-shop match-3 puzzle for the terminal, playable locally,
// over SSH or through a small HTTP/WebSocket API.
//
// Usage:
//
//	match3 list                - List available variants
//	match3 play [variant]      - Play a variant, or pick one from the menu
//	match3 scores <variant>    - Show high scores for a variant
//	match3 config              - Print or install the default rules
//	match3 serve               - Start SSH server for remote play
//	match3 web                 - Start HTTP/WebSocket server
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible boards
//	--db <path>          - Set database path (default: ~/.arcade/match3.db)
//	--config <path>      - Custom rules YAML
//	--difficulty <name>  - Difficulty preset: easy, normal, hard
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "match3",
	Short: "Coffee Match - a match-3 puzzle in your terminal",
	Long: `Coffee Match is a match-3 puzzle: swap neighbouring tiles, line up
three of a kind and earn coins before your moves run out.

Available commands:
  list     - Show all available variants
  play     - Play a variant (menu when none is given)
  scores   - View high scores
  config   - Print or install the default rules
  serve    - Start SSH server for remote play
  web      - Start HTTP/WebSocket server

Examples:
  match3 list
  match3 play
  match3 play match3_cascade --difficulty hard
  match3 serve --ssh :2222
  match3 web --addr :8080
  match3 scores match3`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
			return fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", flagDifficulty)
		}
		// Games read these when they reset
		match3.SetConfigPath(flagConfig)
		match3.SetDifficultyPreset(flagDifficulty)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/match3.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
}

// newLogger builds the logger for a command. The returned closer releases
// the log file, if any.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	w, closer := fallback, func() {}
	if flagLogFile != "" {
		path := expandHome(flagLogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closer = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closer, nil
}

// loadRules resolves the rules from --config and --difficulty.
func loadRules() (match3.Rules, error) {
	cfg, err := config.LoadMatch3(flagConfig)
	if err != nil {
		return match3.Rules{}, err
	}
	if preset := config.ParsePreset(flagDifficulty); preset != "" {
		config.ApplyMatch3Preset(&cfg, preset)
	}
	rules := match3.RulesFromConfig(cfg)
	if err := rules.Validate(); err != nil {
		return match3.Rules{}, err
	}
	return rules, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
