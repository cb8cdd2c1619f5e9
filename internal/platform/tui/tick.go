// Package tui runs the match-3 game in a terminal with Bubble Tea, locally
// or for each session of the Wish SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-match3/internal/core"
)

// TickMsg advances the game by one fixed step.
type TickMsg time.Time

// tickCmd schedules the next TickMsg at the config's tick rate.
func tickCmd(cfg core.RuntimeConfig) tea.Cmd {
	return tea.Tick(cfg.TickInterval(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
