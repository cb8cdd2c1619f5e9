package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// Rules are used for every new session.
	Rules match3.Rules

	// Difficulty names the preset Rules came from. It is stored with
	// each result.
	Difficulty string

	// MaxSessions caps live sessions. Zero means unlimited.
	MaxSessions int

	// RequestTimeout bounds each API request.
	RequestTimeout time.Duration

	// Store records finished games. Optional.
	Store *storage.Store

	// Logger receives request and game events. A default stderr logger is
	// created when nil.
	Logger *log.Logger
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:        ":8080",
		Rules:          match3.DefaultRules(),
		MaxSessions:    1000,
		RequestTimeout: 10 * time.Second,
	}
}

// Server exposes match-3 sessions over HTTP and WebSocket.
type Server struct {
	config   Config
	r        *chi.Mux
	sessions *Manager
	hub      *Hub
	store    *storage.Store
	logger   *log.Logger
	http     *http.Server
}

// New constructs a Server, installs middleware and registers routes.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "match3-web",
		})
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	s := &Server{
		config:   cfg,
		r:        chi.NewRouter(),
		sessions: NewManager(cfg.Rules, cfg.MaxSessions),
		store:    cfg.Store,
		logger:   logger,
	}
	s.hub = NewHub(s.handleSocketMessage, logger)

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)

	s.r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.sessions.Count()})
	})

	// Sockets are long-lived and must not inherit the request timeout
	s.r.Get("/ws/{id}", s.handleSocket)

	s.r.Route("/api/sessions", func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
		r.Use(jsonContentType)

		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/swap", s.handleSwap)
			r.Post("/reset", s.handleReset)
			r.Get("/hint", s.handleHint)
		})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Sessions returns the session manager.
func (s *Server) Sessions() *Manager { return s.sessions }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.config.Address)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs every request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// ----------------------------- sessions ------------------------------------

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	// The body is optional
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	gs, err := s.sessions.Create(req.Variant, req.Seed)
	switch {
	case errors.Is(err, ErrTooManySessions):
		writeError(w, http.StatusServiceUnavailable, "too_many_sessions")
		return
	case errors.Is(err, match3.ErrInvalidRules):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Error("cannot create session", "error", err)
		writeError(w, http.StatusInternalServerError, "create_failed")
		return
	}

	s.logger.Info("session created", "session", gs.ID, "variant", gs.Variant, "seed", gs.Seed)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: gs.ID, State: gs.State()})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	gs, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: gs.ID, State: gs.State()})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, "session_not_found")
		return
	}
	s.hub.CloseSession(id)
	s.logger.Info("session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	gs, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	state, err := s.swap(gs, req.A, req.B)
	if err != nil {
		writeError(w, swapStatus(err), err.Error())
		return
	}

	s.hub.Broadcast(gs.ID, serverMessage{Type: msgState, SessionID: gs.ID, State: &state})

	res := swapResponse{State: state}
	if last := state.LastResult; last != nil {
		res.Applied = last.Applied
		res.Matched = last.Matched
		res.Reward = last.Reward
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	gs, ok := s.lookup(w, r)
	if !ok {
		return
	}
	state := gs.Reset()
	s.hub.Broadcast(gs.ID, serverMessage{Type: msgState, SessionID: gs.ID, State: &state})
	writeJSON(w, http.StatusOK, sessionResponse{ID: gs.ID, State: state})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	gs, ok := s.lookup(w, r)
	if !ok {
		return
	}
	move, found := gs.Hint()
	if !found {
		writeError(w, http.StatusNotFound, "no_moves")
		return
	}
	writeJSON(w, http.StatusOK, hintResponse{Move: move})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*GameSession, bool) {
	gs, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session_not_found")
		return nil, false
	}
	return gs, true
}

// swap applies a swap and records the game if it just ended.
func (s *Server) swap(gs *GameSession, a, b match3.Coord) (State, error) {
	state, err := gs.Swap(a, b)
	if err != nil {
		return state, err
	}

	if last := state.LastResult; last != nil && last.Applied {
		s.logger.Debug("swap", "session", gs.ID, "a", a, "b", b,
			"windows", last.Windows, "reward", last.Reward)
	}
	s.recordIfFinished(gs)
	return state, nil
}

// recordIfFinished saves the result of a game that just ran out of moves.
func (s *Server) recordIfFinished(gs *GameSession) {
	coins, swaps, windows, ok := gs.finished()
	if !ok {
		return
	}
	s.logger.Info("game finished", "session", gs.ID, "coins", coins, "swaps", swaps)
	if s.store == nil || coins <= 0 {
		return
	}

	_, err := s.store.SaveResult(storage.Result{
		GameID:     gs.Variant,
		Coins:      coins,
		Swaps:      swaps,
		Windows:    windows,
		Seed:       gs.Seed,
		Difficulty: s.config.Difficulty,
	})
	if err != nil {
		s.logger.Warn("could not save result", "session", gs.ID, "error", err)
	}
}

// ----------------------------- websocket -----------------------------------

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	gs, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session_not_found")
		return
	}
	state := gs.State()
	s.hub.ServeWS(w, r, gs.ID, serverMessage{Type: msgState, SessionID: gs.ID, State: &state})
}

// handleSocketMessage runs one client message against its session. State
// changes go to every socket of the session, errors and hints only to the
// sender.
func (s *Server) handleSocketMessage(sessionID string, msg clientMessage) (serverMessage, bool) {
	fail := func(text string) (serverMessage, bool) {
		return serverMessage{Type: msgError, SessionID: sessionID, Error: text}, false
	}

	gs, err := s.sessions.Get(sessionID)
	if err != nil {
		return fail("session_not_found")
	}

	switch msg.Type {
	case msgSwap:
		state, err := s.swap(gs, msg.A, msg.B)
		if err != nil {
			return fail(err.Error())
		}
		return serverMessage{Type: msgState, SessionID: sessionID, State: &state}, true

	case msgReset:
		state := gs.Reset()
		return serverMessage{Type: msgState, SessionID: sessionID, State: &state}, true

	case msgHint:
		move, found := gs.Hint()
		if !found {
			return fail("no_moves")
		}
		return serverMessage{Type: msgHint, SessionID: sessionID, Hint: &move}, false
	}
	return fail("unknown_message_type")
}

// ------------------------------ helpers ------------------------------------

func swapStatus(err error) int {
	if errors.Is(err, match3.ErrOutOfBounds) || errors.Is(err, match3.ErrInvalidSwap) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
