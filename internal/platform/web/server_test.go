package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

func newTestServer(t *testing.T, mutate func(*Config)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Logger = log.New(io.Discard)
	if mutate != nil {
		mutate(&cfg)
	}
	srv := New(cfg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func createSession(t *testing.T, ts *httptest.Server, body any) sessionResponse {
	t.Helper()
	var res sessionResponse
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/sessions", body, &res); code != http.StatusCreated {
		t.Fatalf("create session: status %d", code)
	}
	return res
}

func gridOf(t *testing.T, st State) *match3.Grid {
	t.Helper()
	g, err := match3.ParseGrid(st.Board...)
	if err != nil {
		t.Fatalf("ParseGrid(%v): %v", st.Board, err)
	}
	return g
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var body map[string]any
	if code := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, &body); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["ok"] != true {
		t.Errorf("ok = %v, want true", body["ok"])
	}
}

func TestCreateSession(t *testing.T) {
	_, ts := newTestServer(t, nil)

	res := createSession(t, ts, nil)
	if res.ID == "" {
		t.Fatal("empty session id")
	}
	st := res.State
	if st.Variant != VariantClassic {
		t.Errorf("variant = %q, want %q", st.Variant, VariantClassic)
	}
	if st.Rows != 8 || st.Cols != 8 || len(st.Grid) != 8 || len(st.Board) != 8 {
		t.Fatalf("unexpected shape: %dx%d grid=%d board=%d", st.Rows, st.Cols, len(st.Grid), len(st.Board))
	}
	for r, row := range st.Grid {
		if len(row) != 8 {
			t.Fatalf("row %d has %d cells", r, len(row))
		}
		for c, v := range row {
			if v < 1 || v > st.Kinds {
				t.Errorf("cell (%d,%d) = %d, outside 1..%d", r, c, v, st.Kinds)
			}
		}
	}
	if st.MovesLeft != 20 || st.Coins != 0 || st.Over {
		t.Errorf("counters = moves %d coins %d over %v, want 20 0 false", st.MovesLeft, st.Coins, st.Over)
	}
}

func TestCreateSessionSeedIsDeterministic(t *testing.T) {
	_, ts := newTestServer(t, nil)

	a := createSession(t, ts, createRequest{Seed: 42})
	b := createSession(t, ts, createRequest{Seed: 42})
	if a.ID == b.ID {
		t.Fatal("sessions share an id")
	}
	if strings.Join(a.State.Board, "/") != strings.Join(b.State.Board, "/") {
		t.Errorf("same seed gave different grids:\n%v\n%v", a.State.Board, b.State.Board)
	}
}

func TestCreateSessionErrors(t *testing.T) {
	_, ts := newTestServer(t, func(c *Config) { c.MaxSessions = 1 })

	if code := doJSON(t, http.MethodPost, ts.URL+"/api/sessions", createRequest{Variant: "tetris"}, nil); code != http.StatusBadRequest {
		t.Errorf("unknown variant: status %d, want 400", code)
	}

	createSession(t, ts, createRequest{Variant: VariantCascade})
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/sessions", nil, nil); code != http.StatusServiceUnavailable {
		t.Errorf("over limit: status %d, want 503", code)
	}
}

func TestUnknownSession(t *testing.T) {
	_, ts := newTestServer(t, nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/sessions/nope"},
		{http.MethodDelete, "/api/sessions/nope"},
		{http.MethodPost, "/api/sessions/nope/reset"},
		{http.MethodGet, "/api/sessions/nope/hint"},
		{http.MethodGet, "/no/such/route"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if code := doJSON(t, tt.method, ts.URL+tt.path, nil, nil); code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", code)
			}
		})
	}
}

func TestSwap(t *testing.T) {
	_, ts := newTestServer(t, nil)
	sess := createSession(t, ts, createRequest{Seed: 7})
	url := ts.URL + "/api/sessions/" + sess.ID + "/swap"

	var res swapResponse
	code := doJSON(t, http.MethodPost, url, swapRequest{A: match3.C(0, 0), B: match3.C(0, 1)}, &res)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if !res.Applied {
		t.Error("swap not applied")
	}
	if res.State.MovesLeft != 19 || res.State.Swaps != 1 {
		t.Errorf("moves=%d swaps=%d, want 19 1", res.State.MovesLeft, res.State.Swaps)
	}
	if res.State.Coins != res.Reward {
		t.Errorf("coins = %d, want reward %d", res.State.Coins, res.Reward)
	}
	if res.Matched != (res.Reward > 0) {
		t.Errorf("matched = %v with reward %d", res.Matched, res.Reward)
	}

	var got sessionResponse
	doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+sess.ID, nil, &got)
	if got.State.MovesLeft != 19 || got.State.LastResult == nil {
		t.Errorf("GET after swap: moves=%d last=%v", got.State.MovesLeft, got.State.LastResult)
	}
}

func TestSwapErrors(t *testing.T) {
	_, ts := newTestServer(t, func(c *Config) { c.Rules.EnforceAdjacency = true })
	sess := createSession(t, ts, nil)
	url := ts.URL + "/api/sessions/" + sess.ID + "/swap"

	tests := []struct {
		name string
		body any
		want int
	}{
		{"out of bounds", swapRequest{A: match3.C(0, 0), B: match3.C(0, 8)}, http.StatusBadRequest},
		{"negative", swapRequest{A: match3.C(-1, 0), B: match3.C(0, 0)}, http.StatusBadRequest},
		{"not adjacent", swapRequest{A: match3.C(0, 0), B: match3.C(2, 2)}, http.StatusBadRequest},
		{"same cell", swapRequest{A: match3.C(3, 3), B: match3.C(3, 3)}, http.StatusBadRequest},
		{"bad json", "not a swap", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := doJSON(t, http.MethodPost, url, tt.body, nil); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}

	var got sessionResponse
	doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+sess.ID, nil, &got)
	if got.State.MovesLeft != 20 {
		t.Errorf("rejected swaps spent moves: %d left", got.State.MovesLeft)
	}
	if strings.Join(got.State.Board, "") != strings.Join(sess.State.Board, "") {
		t.Error("rejected swaps changed the grid")
	}
}

func TestSwapWithoutMovesIsIgnored(t *testing.T) {
	_, ts := newTestServer(t, func(c *Config) { c.Rules.StartingMoves = 1 })
	sess := createSession(t, ts, nil)
	url := ts.URL + "/api/sessions/" + sess.ID + "/swap"

	var first swapResponse
	doJSON(t, http.MethodPost, url, swapRequest{A: match3.C(0, 0), B: match3.C(1, 0)}, &first)
	if !first.State.Over || first.State.MovesLeft != 0 {
		t.Fatalf("after last move: over=%v moves=%d", first.State.Over, first.State.MovesLeft)
	}

	var second swapResponse
	code := doJSON(t, http.MethodPost, url, swapRequest{A: match3.C(0, 0), B: match3.C(1, 0)}, &second)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if second.Applied {
		t.Error("swap applied with no moves left")
	}
	if second.State.MovesLeft != 0 || second.State.Coins != first.State.Coins {
		t.Errorf("counters changed: moves=%d coins=%d", second.State.MovesLeft, second.State.Coins)
	}
	if strings.Join(second.State.Board, "") != strings.Join(first.State.Board, "") {
		t.Error("grid changed with no moves left")
	}
}

func TestHint(t *testing.T) {
	_, ts := newTestServer(t, nil)
	sess := createSession(t, ts, createRequest{Seed: 3})

	want, found := match3.Hint(gridOf(t, sess.State))

	var res hintResponse
	code := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+sess.ID+"/hint", nil, &res)
	if !found {
		if code != http.StatusNotFound {
			t.Errorf("status = %d, want 404 for a board without moves", code)
		}
		return
	}
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if res.Move != want {
		t.Errorf("hint = %+v, want %+v", res.Move, want)
	}
	if !res.Move.A.Adjacent(res.Move.B) {
		t.Errorf("hint %+v is not adjacent", res.Move)
	}
}

func TestResetAndDelete(t *testing.T) {
	_, ts := newTestServer(t, nil)
	sess := createSession(t, ts, nil)
	base := ts.URL + "/api/sessions/" + sess.ID

	doJSON(t, http.MethodPost, base+"/swap", swapRequest{A: match3.C(0, 0), B: match3.C(0, 1)}, nil)

	var reset sessionResponse
	if code := doJSON(t, http.MethodPost, base+"/reset", nil, &reset); code != http.StatusOK {
		t.Fatalf("reset: status %d", code)
	}
	if reset.State.MovesLeft != 20 || reset.State.Coins != 0 || reset.State.Swaps != 0 || reset.State.LastResult != nil {
		t.Errorf("reset state = %+v", reset.State)
	}

	if code := doJSON(t, http.MethodDelete, base, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete: status %d, want 204", code)
	}
	if code := doJSON(t, http.MethodGet, base, nil, nil); code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", code)
	}
}

func TestFinishedGameIsRecorded(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	_, ts := newTestServer(t, func(c *Config) {
		c.Rules.StartingMoves = 1
		c.Store = store
		c.Difficulty = "hard"
	})
	sess := createSession(t, ts, createRequest{Seed: 11})

	move, found := match3.Hint(gridOf(t, sess.State))
	if !found {
		t.Skip("seeded board has no matching move")
	}

	var res swapResponse
	doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sess.ID+"/swap", swapRequest{A: move.A, B: move.B}, &res)
	if !res.Matched || res.Reward <= 0 || !res.State.Over {
		t.Fatalf("hinted swap: matched=%v reward=%d over=%v", res.Matched, res.Reward, res.State.Over)
	}

	// A second, ignored swap must not record the game twice
	doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sess.ID+"/swap", swapRequest{A: move.A, B: move.B}, nil)

	results, err := store.TopResults(VariantClassic, 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("stored %d results, want 1", len(results))
	}
	if results[0].Coins != res.State.Coins || results[0].Swaps != 1 || results[0].Seed != 11 || results[0].Difficulty != "hard" {
		t.Errorf("stored %+v, want coins %d swaps 1 seed 11 hard", results[0], res.State.Coins)
	}
}

func dialSession(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + id
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) serverMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg serverMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	return msg
}

func TestWebSocket(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	sess := createSession(t, ts, createRequest{Seed: 5})

	conn := dialSession(t, ts, sess.ID)
	hello := readMessage(t, conn)
	if hello.Type != msgState || hello.SessionID != sess.ID || hello.State == nil {
		t.Fatalf("initial message = %+v", hello)
	}
	if hello.State.MovesLeft != 20 {
		t.Errorf("initial moves = %d, want 20", hello.State.MovesLeft)
	}

	watcher := dialSession(t, ts, sess.ID)
	readMessage(t, watcher)

	deadline := time.Now().Add(time.Second)
	for srv.hub.Clients(sess.ID) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := conn.WriteJSON(clientMessage{Type: msgSwap, A: match3.C(0, 0), B: match3.C(0, 1)}); err != nil {
		t.Fatalf("write swap: %v", err)
	}
	for name, c := range map[string]*websocket.Conn{"sender": conn, "watcher": watcher} {
		msg := readMessage(t, c)
		if msg.Type != msgState || msg.State == nil || msg.State.MovesLeft != 19 {
			t.Errorf("%s got %+v after swap", name, msg)
		}
	}

	// REST changes reach socket clients too
	doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sess.ID+"/reset", nil, nil)
	if msg := readMessage(t, watcher); msg.State == nil || msg.State.MovesLeft != 20 {
		t.Errorf("watcher got %+v after REST reset", msg)
	}
	readMessage(t, conn)

	if err := conn.WriteJSON(clientMessage{Type: msgSwap, A: match3.C(0, 0), B: match3.C(9, 9)}); err != nil {
		t.Fatalf("write swap: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != msgError || msg.Error == "" {
		t.Errorf("out of bounds swap got %+v, want error", msg)
	}

	if err := conn.WriteJSON(clientMessage{Type: "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != msgError {
		t.Errorf("unknown type got %+v, want error", msg)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != msgError || msg.Error != "bad_json" {
		t.Errorf("bad json got %+v", msg)
	}

	if err := conn.WriteJSON(clientMessage{Type: msgHint}); err != nil {
		t.Fatalf("write hint: %v", err)
	}
	msg := readMessage(t, conn)
	switch msg.Type {
	case msgHint:
		if msg.Hint == nil || !msg.Hint.A.Adjacent(msg.Hint.B) {
			t.Errorf("hint = %+v", msg.Hint)
		}
	case msgError:
		if msg.Error != "no_moves" {
			t.Errorf("hint error = %q", msg.Error)
		}
	default:
		t.Errorf("hint got %+v", msg)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	_, ts := newTestServer(t, nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/missing"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial succeeded for an unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v, want 404", resp)
	}
}

func TestDeleteClosesSockets(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	sess := createSession(t, ts, nil)

	conn := dialSession(t, ts, sess.ID)
	readMessage(t, conn)

	doJSON(t, http.MethodDelete, ts.URL+"/api/sessions/"+sess.ID, nil, nil)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("socket still open after session delete")
	}
	if n := srv.hub.Clients(sess.ID); n != 0 {
		t.Errorf("hub still tracks %d clients", n)
	}
}
