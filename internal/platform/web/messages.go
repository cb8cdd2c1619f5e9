package web

import "github.com/vovakirdan/tui-match3/internal/games/match3"

// State is the JSON view of one session.
type State struct {
	Variant string `json:"variant"`
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	Kinds   int    `json:"kinds"`
	// Grid holds tile symbols 1..kinds, row 0 on top.
	Grid [][]int `json:"grid"`
	// Board is the same grid as letter rows ("ABCDE...").
	Board      []string     `json:"board"`
	MovesLeft  int          `json:"movesLeft"`
	Coins      int          `json:"coins"`
	Swaps      int          `json:"swaps"`
	Over       bool         `json:"over"`
	LastResult *swapOutcome `json:"lastResult,omitempty"`
}

// swapOutcome summarizes the most recent accepted swap request.
type swapOutcome struct {
	A       match3.Coord `json:"a"`
	B       match3.Coord `json:"b"`
	Applied bool         `json:"applied"`
	Matched bool         `json:"matched"`
	Reward  int          `json:"reward"`
	Windows int          `json:"windows"`
	Passes  int          `json:"passes"`
}

type createRequest struct {
	Variant string `json:"variant"`
	Seed    int64  `json:"seed"`
}

type sessionResponse struct {
	ID    string `json:"id"`
	State State  `json:"state"`
}

type swapRequest struct {
	A match3.Coord `json:"a"`
	B match3.Coord `json:"b"`
}

type swapResponse struct {
	State   State `json:"state"`
	Applied bool  `json:"applied"`
	Matched bool  `json:"matched"`
	Reward  int   `json:"reward"`
}

type hintResponse struct {
	Move match3.Move `json:"move"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Socket message types.
const (
	msgSwap  = "swap"
	msgReset = "reset"
	msgHint  = "hint"
	msgState = "state"
	msgError = "error"
)

// clientMessage is sent by a socket client.
type clientMessage struct {
	Type string       `json:"type"`
	A    match3.Coord `json:"a"`
	B    match3.Coord `json:"b"`
}

// serverMessage is pushed to socket clients.
type serverMessage struct {
	Type      string       `json:"type"`
	SessionID string       `json:"sessionId"`
	State     *State       `json:"state,omitempty"`
	Hint      *match3.Move `json:"hint,omitempty"`
	Error     string       `json:"error,omitempty"`
}
