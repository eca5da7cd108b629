package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/utils"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Clients only send small control messages.
	maxMessageSize = 4 * 1024
)

// Event types pushed to clients.
const (
	TypeInvalidate = "invalidate"
	TypeMacro      = "macro"
)

// Event tells renderers to pull the view again.
type Event struct {
	Type  string    `json:"type"`
	Scope string    `json:"scope,omitempty"`
	Data  any       `json:"data,omitempty"`
	Time  time.Time `json:"time"`
}

// Hub fans events out to every connected websocket client.
type Hub struct {
	upgrader websocket.Upgrader
	logger   logger.Logger

	mu    sync.RWMutex
	conns map[*websocket.Conn]*client
}

type client struct {
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	doneOnce sync.Once
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     utils.SameOrigin,
		},
		logger: log,
		conns:  make(map[*websocket.Conn]*client),
	}
}

// ServeHTTP upgrades the request and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logger.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.conns[conn] = c
	h.mu.Unlock()

	h.logger.Debug("websocket client connected", logger.String("remote_ip", r.RemoteAddr))

	go h.readPump(c)
	go h.writePump(c)
}

// Publish sends an event to every client. Slow clients drop events.
func (h *Hub) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to marshal event", logger.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.conns {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("websocket send buffer full, dropping event")
		}
	}
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.conns))
	for _, c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.remove(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.conns, c.conn)
	h.mu.Unlock()

	c.doneOnce.Do(func() { close(c.done) })
	_ = c.conn.Close()
}

// readPump drains client messages; only application pings are answered.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", logger.Error(err))
			}
			return
		}

		var msg struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(data, &msg) == nil && msg.Type == "ping" {
			select {
			case c.send <- []byte(`{"type":"pong"}`):
			default:
			}
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
