package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handlerFunc processes one client message and returns the reply for the
// sender. Returning broadcast=true pushes the reply to every client of the
// session instead.
type handlerFunc func(sessionID string, msg clientMessage) (reply serverMessage, broadcast bool)

// client is one socket watching a session.
type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	once      sync.Once
}

// Hub tracks the sockets attached to each session.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]map[*client]struct{}
	handle   handlerFunc
	logger   *log.Logger
}

// NewHub creates a hub that passes client messages to handle.
func NewHub(handle handlerFunc, logger *log.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]map[*client]struct{}),
		handle:   handle,
		logger:   logger,
	}
}

// ServeWS upgrades the request and attaches the socket to sessionID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, initial serverMessage) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session", sessionID, "error", err)
		return
	}

	c := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: sessionID,
	}
	h.register(c)
	c.queue(initial)

	go c.writePump()
	go c.readPump()
}

// Broadcast sends msg to every socket of the session.
func (h *Hub) Broadcast(sessionID string, msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("cannot encode socket message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.sessions[sessionID] {
		select {
		case c.send <- data:
		default:
			// Slow consumer
			h.removeLocked(c)
		}
	}
}

// CloseSession disconnects every socket of the session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.sessions[sessionID] {
		h.removeLocked(c)
	}
}

// Clients returns the number of sockets attached to the session.
func (h *Hub) Clients(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[sessionID])
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[c.sessionID] == nil {
		h.sessions[c.sessionID] = make(map[*client]struct{})
	}
	h.sessions[c.sessionID][c] = struct{}{}
	h.logger.Debug("socket attached", "session", c.sessionID, "clients", len(h.sessions[c.sessionID]))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	clients, ok := h.sessions[c.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	c.once.Do(func() { close(c.send) })
	if len(clients) == 0 {
		delete(h.sessions, c.sessionID)
	}
	h.logger.Debug("socket detached", "session", c.sessionID, "clients", len(clients))
}

// queue sends a message to this client only.
func (c *client) queue(msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if _, ok := c.hub.sessions[c.sessionID][c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		c.hub.removeLocked(c)
	}
}

// readPump decodes client messages until the connection fails.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", "session", c.sessionID, "error", err)
			}
			if isDecodeError(err) {
				c.queue(serverMessage{Type: msgError, SessionID: c.sessionID, Error: "bad_json"})
				continue
			}
			return
		}

		reply, broadcast := c.hub.handle(c.sessionID, msg)
		if broadcast {
			c.hub.Broadcast(c.sessionID, reply)
		} else {
			c.queue(reply)
		}
	}
}

// writePump pumps queued messages and pings to the connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
