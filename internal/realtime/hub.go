package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"roadassist/internal/observability"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

// LocationPing is the fire-and-forget location frame a mechanic's client
// emits while driving to or waiting at a job. No acknowledgment, no retry;
// the next tick supersedes a dropped one.
type LocationPing struct {
	BookingID int64 `json:"bookingId"`
	UserID    int64 `json:"userId"`
	Location  struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

// connection is one client session: a single websocket plus the set of rooms
// it has joined this session.
type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
	rooms  map[string]bool
}

// Hub fans push events out to room members. One hub per process; each page
// session holds one connection and joins the rooms it needs.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]bool

	log *slog.Logger

	// OnLocation receives every inbound location ping. Set once at wiring
	// time, before the first connection is served.
	OnLocation func(ping LocationPing)
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		connections: make(map[*connection]bool),
		log:         log,
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
	observability.ConnectionsActive.Inc()
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[c] {
		delete(h.connections, c)
		close(c.send)
		observability.ConnectionsActive.Dec()
	}
}

// Broadcast sends an event to every member of the room. Slow consumers are
// skipped rather than blocking the rest of the room.
func (h *Hub) Broadcast(room string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("event marshal failed", "type", event.Type, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if !c.rooms[room] {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.Warn("dropping event for slow consumer", "room", room, "user_id", c.userID)
		}
	}
}

// RoomSize reports how many connections are currently joined to the room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.connections {
		if c.rooms[room] {
			n++
		}
	}
	return n
}

// ServeConn runs a client session until the socket drops. Blocks; callers run
// it from the upgrade handler's goroutine.
func (h *Hub) ServeConn(conn *websocket.Conn, userID int64) {
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 256),
		rooms:  make(map[string]bool),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame struct {
			Type      string          `json:"type"`
			UserID    int64           `json:"userId"`
			BookingID int64           `json:"bookingId"`
			Payload   json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(msg, &frame); err != nil {
			continue
		}

		switch frame.Type {
		case frameJoinUserRoom:
			// a client may only watch its own room
			h.join(c, UserRoom(c.userID))
		case frameJoinMechanicRoom:
			h.join(c, MechanicRoom())
		case frameJoinTracking:
			h.join(c, TrackingRoom(frame.BookingID))
		case frameUpdateLocation:
			var ping LocationPing
			raw := frame.Payload
			if raw == nil {
				raw = msg
			}
			if err := json.Unmarshal(raw, &ping); err != nil {
				continue
			}
			if h.OnLocation != nil {
				h.OnLocation(ping)
			}
		}
	}
}

func (h *Hub) join(c *connection, room string) {
	h.mu.Lock()
	c.rooms[room] = true
	h.mu.Unlock()
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
