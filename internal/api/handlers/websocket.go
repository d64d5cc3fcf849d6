package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sajidalishaik45/coauthor-network/internal/apierr"
	"github.com/sajidalishaik45/coauthor-network/internal/force"
	"github.com/sajidalishaik45/coauthor-network/internal/logger"
	"github.com/sajidalishaik45/coauthor-network/internal/metrics"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 30 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Frames queued per client before it is considered stalled
	clientBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// CORS middleware handles origin checks
		return true
	},
}

// Message types on the layout stream.
const (
	MessageHello    = "hello"
	MessageSnapshot = "snapshot"
	MessageTick     = "tick"
	MessageError    = "error"

	ClientPin     = "pin"
	ClientUnpin   = "unpin"
	ClientRestart = "restart"
)

// WebSocketMessage represents a message sent to clients
type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ClientMessage is a control message from a client. Pin carries id, x and
// y; unpin carries id; restart carries nothing.
type ClientMessage struct {
	Type string   `json:"type"`
	ID   string   `json:"id,omitempty"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
}

// Client represents a WebSocket client connection
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// nodes this client holds pinned; released when the connection ends
	pinsMu sync.Mutex
	pins   map[string]struct{}
}

func (c *Client) trackPin(id string, pinned bool) {
	c.pinsMu.Lock()
	defer c.pinsMu.Unlock()
	if pinned {
		c.pins[id] = struct{}{}
	} else {
		delete(c.pins, id)
	}
}

// releasePins unpins every node the client still holds, as if each drag had
// ended, so the layout can cool once the client is gone.
func (c *Client) releasePins() {
	c.pinsMu.Lock()
	ids := make([]string, 0, len(c.pins))
	for id := range c.pins {
		ids = append(ids, id)
	}
	clear(c.pins)
	c.pinsMu.Unlock()

	for _, id := range ids {
		if err := c.hub.layout.Unpin(id); err != nil {
			logger.Warn("Failed to release pin", "client_id", c.id, "node_id", id, "error", err)
		}
	}
	if len(ids) > 0 {
		logger.Info("Released pins of departed client", "client_id", c.id, "count", len(ids))
	}
}

// Hub relays layout snapshots to every connected client, one message per
// tick, and forwards client drag events to the layout.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	layout LayoutController

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub(l LayoutController) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		layout:     l,
	}
}

// Run subscribes to the layout and serves clients until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	snaps, cancel := h.layout.Subscribe(4)
	defer cancel()
	defer close(h.done)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketConnections.Inc()
			logger.Info("WebSocket client connected", "client_id", client.id, "total_clients", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.WebSocketConnections.Dec()
				logger.Info("WebSocket client disconnected", "client_id", client.id, "total_clients", len(h.clients))
			}
			h.mu.Unlock()

		case snap, ok := <-snaps:
			if !ok {
				return
			}
			h.broadcast(WebSocketMessage{Type: MessageTick, Payload: snap})
		}
	}
}

func (h *Hub) broadcast(msg WebSocketMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal WebSocket message", "type", msg.Type, "error", err)
		return
	}

	sent := 0
	for client := range h.clients {
		select {
		case client.send <- data:
			sent++
		default:
			// Client's send buffer is full, close the connection
			close(client.send)
			delete(h.clients, client)
			metrics.WebSocketConnections.Dec()
			logger.Warn("WebSocket client stalled, disconnecting", "client_id", client.id)
		}
	}
	metrics.WebSocketMessagesSent.Add(float64(sent))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
		metrics.WebSocketConnections.Dec()
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		client.releasePins()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) handle(c *Client, msg ClientMessage) error {
	switch msg.Type {
	case ClientPin:
		if msg.ID == "" {
			return apierr.ValidationMissingField("id")
		}
		if msg.X == nil || msg.Y == nil {
			return apierr.ValidationMissingField("x")
		}
		if err := h.layout.Pin(msg.ID, *msg.X, *msg.Y); err != nil {
			return err
		}
		c.trackPin(msg.ID, true)
		return nil
	case ClientUnpin:
		if msg.ID == "" {
			return apierr.ValidationMissingField("id")
		}
		if err := h.layout.Unpin(msg.ID); err != nil {
			return err
		}
		c.trackPin(msg.ID, false)
		return nil
	case ClientRestart:
		h.layout.Restart()
		return nil
	default:
		return apierr.ValidationInvalidValue("type", "Unknown message type: "+msg.Type)
	}
}

// reply queues a message for this client only. It never blocks; a full
// buffer drops the reply.
func (c *Client) reply(msg WebSocketMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump pumps control messages from the WebSocket connection to the layout
func (c *Client) readPump() {
	defer func() {
		c.releasePins()
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket unexpected close", "client_id", c.id, "error", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.reply(WebSocketMessage{Type: MessageError, Payload: apierr.ValidationInvalidJSON()})
			continue
		}
		if err := c.hub.handle(c, msg); err != nil {
			c.reply(WebSocketMessage{Type: MessageError, Payload: toAPIError(msg.ID, err)})
		}
	}
}

func toAPIError(id string, err error) *apierr.Error {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, force.ErrUnknownNode) {
		return apierr.LayoutUnknownNode(id)
	}
	return apierr.LayoutInvalidPin(err.Error())
}

// writePump pumps messages from the hub to the WebSocket connection, one
// frame per message
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// WebSocketHandler handles WebSocket connections for the layout stream
type WebSocketHandler struct {
	hub *Hub
}

// NewWebSocketHandler creates a new WebSocket handler. The caller runs the
// hub.
func NewWebSocketHandler(hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket upgrades the connection and streams layout frames. The
// first two messages are a hello carrying the client id and the current
// snapshot, so a client can render before the next tick.
// GET /api/layout/ws
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response
		logger.WarnContext(r.Context(), "Failed to upgrade to WebSocket", "error", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, clientBuffer),
		pins: make(map[string]struct{}),
	}

	for _, msg := range []WebSocketMessage{
		{Type: MessageHello, Payload: map[string]string{"client_id": client.id}},
		{Type: MessageSnapshot, Payload: h.hub.layout.Snapshot()},
	} {
		if data, err := json.Marshal(msg); err == nil {
			client.send <- data
		}
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
