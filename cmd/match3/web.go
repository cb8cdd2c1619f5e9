package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/platform/web"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var (
	flagWebAddr     string
	flagMaxSessions int
	flagWebTimeout  time.Duration
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP/WebSocket server",
	Long: `Start an HTTP server exposing match-3 sessions as a JSON API, with a
WebSocket per session that pushes the grid after every change.

Endpoints:
  POST   /api/sessions             - New session ({"variant":..,"seed":..} optional)
  GET    /api/sessions/{id}        - Current state
  POST   /api/sessions/{id}/swap   - {"a":{"row":r,"col":c},"b":{"row":r,"col":c}}
  POST   /api/sessions/{id}/reset  - Start over
  GET    /api/sessions/{id}/hint   - Suggested swap
  DELETE /api/sessions/{id}        - End the session
  GET    /ws/{id}                  - WebSocket: swap, reset and hint messages
  GET    /healthz                  - Liveness

Examples:
  match3 web
  match3 web --addr :9000 --difficulty hard
  match3 web --config ./my-rules.yaml --log-level debug`,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
	webCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", 1000, "Maximum live sessions (0 = unlimited)")
	webCmd.Flags().DurationVar(&flagWebTimeout, "timeout", 10*time.Second, "Per-request timeout")
}

func runWeb(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger("match3-web", os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	rules, err := loadRules()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open results database", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	srv := web.New(web.Config{
		Address:        flagWebAddr,
		Rules:          rules,
		Difficulty:     flagDifficulty,
		MaxSessions:    flagMaxSessions,
		RequestTimeout: flagWebTimeout,
		Store:          store,
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
