package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const notifyChannel = "greenbridge:events"

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Event is a platform notification pushed to connected clients. Events with a
// UserID are delivered only to that user's connections; broadcast otherwise.
type Event struct {
	Type    string `json:"type"`
	UserID  string `json:"user_id,omitempty"`
	Subject string `json:"subject_id,omitempty"`
	Message string `json:"message"`
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks connected websocket clients and fans events out to them. When a
// redis client is attached, events pass through pub/sub so every process in a
// multi-instance deployment delivers them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}

	rdb *redis.Client
	ctx context.Context
}

func NewHub() *Hub {
	return &Hub{clients: map[*client]struct{}{}}
}

// AttachRedis routes publishes through redis pub/sub and starts the
// subscriber loop. Call before serving connections.
func (h *Hub) AttachRedis(rdb *redis.Client, ctx context.Context) {
	h.rdb = rdb
	h.ctx = ctx
	go h.subscribeLoop()
}

// Publish delivers an event to connected clients, via redis when attached.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: marshal event: %v", err)
		return
	}
	if h.rdb != nil {
		if err := h.rdb.Publish(h.ctx, notifyChannel, data).Err(); err != nil {
			log.Printf("ws: publish: %v", err)
		}
		return
	}
	h.deliver(ev, data)
}

func (h *Hub) subscribeLoop() {
	sub := h.rdb.Subscribe(h.ctx, notifyChannel)
	defer sub.Close()
	for msg := range sub.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("ws: bad event payload: %v", err)
			continue
		}
		h.deliver(ev, []byte(msg.Payload))
	}
}

func (h *Hub) deliver(ev Event, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if ev.UserID != "" && c.userID != ev.UserID {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Slow consumer; drop the event rather than block the hub.
		}
	}
}

// ConnectedClients reports the number of live connections.
func (h *Hub) ConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeConn upgrades the request and pumps events to the socket until the
// peer disconnects. userID scopes targeted events to this connection.
func (h *Hub) ServeConn(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{userID: userID, conn: conn, send: make(chan []byte, 16)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Clients only listen; reads exist to notice disconnects and pongs.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.drop(c)
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}
