package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/interfaces/http/middleware"
	"smilecare.backend/internal/interfaces/http/response"
	"smilecare.backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// access tokens arrive in the query string, so the origin is not what authenticates the peer
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Presence records when users connect and disconnect
type Presence interface {
	SetOnline(ctx context.Context, id uuid.UUID, online bool, at time.Time) error
}

// Client represents a single connected WebSocket client
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uuid.UUID
}

// Hub tracks the connections of every user and pushes chat events to them
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	presence   Presence
	done       chan struct{}
	mu         sync.Mutex
}

// NewHub initializes a new WS Hub instance. presence may be nil.
func NewHub(presence Presence) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		presence:   presence,
		done:       make(chan struct{}),
	}
}

// Run handles registrations until ctx is cancelled, then closes every connection
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]bool)
				h.clients[client.userID] = conns
			}
			conns[client] = true
			first := len(conns) == 1
			h.mu.Unlock()
			if first {
				h.setOnline(ctx, client.userID, true)
			}
		case client := <-h.unregister:
			if h.remove(client) {
				h.setOnline(ctx, client.userID, false)
			}
		case <-ctx.Done():
			h.mu.Lock()
			for userID, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			return
		}
	}
}

// remove drops a client and reports whether it was the user's last connection
func (h *Hub) remove(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[client.userID]
	if !ok || !conns[client] {
		return false
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
		return true
	}
	return false
}

func (h *Hub) setOnline(ctx context.Context, userID uuid.UUID, online bool) {
	if h.presence == nil {
		return
	}
	// presence must be written even while the hub is shutting down
	if err := h.presence.SetOnline(context.WithoutCancel(ctx), userID, online, time.Now()); err != nil {
		logger.Warn(ctx, "Failed to update presence", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// Publish sends an event to every connection of the given users.
// Connections whose buffer is full are dropped.
func (h *Hub) Publish(userIDs []uuid.UUID, event entities.ChatEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error(context.Background(), "Failed to encode chat event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	var slow []*Client
	h.mu.Lock()
	seen := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		for client := range h.clients[id] {
			select {
			case client.send <- payload:
			default:
				slow = append(slow, client)
			}
		}
	}
	h.mu.Unlock()

	for _, client := range slow {
		go h.leave(client)
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Connected reports whether the user has at least one open connection
func (h *Hub) Connected(userID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID]) > 0
}

// ServeWS upgrades an authenticated request and attaches it to the hub
// GET /api/v1/chat/ws?token=<access token>
func (h *Hub) ServeWS(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(c.Request.Context(), "WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), userID: userID}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// writePump forwards hub events to the connection and keeps it alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
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

// readPump only watches for pongs and close frames; clients send messages over REST
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn(context.Background(), "WebSocket closed unexpectedly", zap.String("user_id", c.userID.String()), zap.Error(err))
			}
			return
		}
	}
}
