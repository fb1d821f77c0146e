package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alkime/knobs/internal/page"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second

	// coalesceWindow is how long bursts of changes to one widget are
	// collapsed to the latest before being sent to clients.
	coalesceWindow = 50 * time.Millisecond

	defaultSendBuf = 32
)

// Event types sent to websocket clients.
const (
	EventSnapshot = "snapshot"
	EventChange   = "change"
)

// Envelope is the wire format of websocket messages.
type Envelope struct {
	Type string          `json:"type"`
	Ts   *time.Time      `json:"ts,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	// The API is guarded by the token, not by origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub keeps the store current and fans changes out to websocket clients.
// Clients that can't keep up are disconnected.
type Hub struct {
	logger *slog.Logger
	store  *Store

	register   chan *client
	unregister chan *client
	done       chan struct{}
	sendBuf    int

	// owned by Run
	clients map[*client]struct{}
}

// NewHub creates a hub. sendBuf is the per-client queue length; zero picks a
// default.
func NewHub(logger *slog.Logger, store *Store, sendBuf int) *Hub {
	if sendBuf <= 0 {
		sendBuf = defaultSendBuf
	}

	return &Hub{
		logger:     logger,
		store:      store,
		register:   make(chan *client, 16),
		unregister: make(chan *client, 16),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
		sendBuf:    sendBuf,
	}
}

// Run applies changes to the store and broadcasts them until ctx is done or
// changes is closed, then disconnects every client.
func (h *Hub) Run(ctx context.Context, changes <-chan page.Change) {
	defer close(h.done)
	defer h.closeAll()

	var (
		pending = make(map[string]page.Change)
		order   []string
		flushC  <-chan time.Time
	)

	flush := func() {
		for _, name := range order {
			h.broadcast(h.frame(EventChange, pending[name]))
		}

		clear(pending)
		order = order[:0]
		flushC = nil
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			h.logger.Debug("ws hub stopping", "reason", "context")

			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Info("ws client connected", "remote_addr", c.remoteAddr, "clients", len(h.clients))
			h.sendTo(c, h.frame(EventSnapshot, h.store.All()))

		case c := <-h.unregister:
			h.remove(c, "unregister")

		case change, ok := <-changes:
			if !ok {
				flush()
				h.logger.Debug("ws hub stopping", "reason", "source ended")

				return
			}

			h.store.Put(change)

			if _, seen := pending[change.Widget]; !seen {
				order = append(order, change.Widget)
			}

			pending[change.Widget] = change

			if flushC == nil {
				flushC = time.After(coalesceWindow)
			}

		case <-flushC:
			flush()
		}
	}
}

func (h *Hub) frame(typ string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		h.logger.Warn("ws marshal failed", "type", typ, "error", err)
		return nil
	}

	now := time.Now().UTC()

	msg, err := json.Marshal(Envelope{Type: typ, Ts: &now, Data: raw})
	if err != nil {
		h.logger.Warn("ws marshal failed", "type", typ, "error", err)
		return nil
	}

	return msg
}

func (h *Hub) broadcast(msg []byte) {
	for c := range h.clients {
		h.sendTo(c, msg)
	}
}

func (h *Hub) sendTo(c *client, msg []byte) {
	if msg == nil {
		return
	}

	select {
	case c.send <- msg:
	default:
		h.remove(c, "slow client")
	}
}

// remove closes the client's queue; its write pump then closes the socket.
func (h *Hub) remove(c *client, reason string) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)
	h.logger.Info("ws client disconnected", "remote_addr", c.remoteAddr, "reason", reason, "clients", len(h.clients))
}

func (h *Hub) closeAll() {
	for c := range h.clients {
		h.remove(c, "shutdown")
	}
}

func (h *Hub) join(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

type client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
}

// writePump writes queued messages and keepalive pings until the queue is
// closed or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "bye"))

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logExit("write", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logExit("ping", err)
				return
			}
		}
	}
}

// readPump discards incoming messages so control frames are handled and a
// disconnect is noticed.
func (c *client) readPump() {
	defer c.hub.leave(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.logExit("read", err)
			return
		}
	}
}

func (c *client) logExit(op string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}

	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		c.hub.logger.Debug("ws pump exiting", "op", op, "remote_addr", c.remoteAddr, "code", ce.Code)
		return
	}

	c.hub.logger.Debug("ws pump exiting", "op", op, "remote_addr", c.remoteAddr, "error", err)
}

// handleEvents upgrades to a websocket and streams a snapshot followed by
// every change.
func (s *Server) handleEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	cl := &client{
		hub:        s.hub,
		conn:       conn,
		send:       make(chan []byte, s.hub.sendBuf),
		remoteAddr: c.Request.RemoteAddr,
	}

	if !s.hub.join(cl) {
		_ = conn.Close()
		return
	}

	// Pumps outlive the request; the hub and socket errors end them.
	go cl.writePump()
	go cl.readPump()
}
