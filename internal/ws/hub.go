package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Event is the payload pushed to the clients of one store.
type Event struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type subscription struct {
	conn    Conn
	storeID uuid.UUID
}

type envelope struct {
	storeID uuid.UUID
	message []byte
}

// Hub fans events out to the websocket clients of each store. A client only
// ever receives events of the store it registered for.
type Hub struct {
	clients    map[Conn]uuid.UUID
	register   chan subscription
	unregister chan Conn
	broadcast  chan envelope
	done       chan struct{}
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[Conn]uuid.UUID),
		register:   make(chan subscription),
		unregister: make(chan Conn),
		broadcast:  make(chan envelope, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every remaining connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case sub := <-h.register:
			h.mutex.Lock()
			h.clients[sub.conn] = sub.storeID
			h.mutex.Unlock()
			h.log.Debug("ws client connected", zap.String("store_id", sub.storeID.String()))

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case env := <-h.broadcast:
			h.mutex.Lock()
			for conn, storeID := range h.clients {
				if storeID != env.storeID {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, env.message); err != nil {
					h.log.Debug("ws write failed, dropping client", zap.Error(err))
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) Register(conn Conn, storeID uuid.UUID) {
	select {
	case h.register <- subscription{conn: conn, storeID: storeID}:
	case <-h.done:
		conn.Close()
	}
}

func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Publish queues event for every client of storeID. Publishing after the hub
// stopped is a no-op.
func (h *Hub) Publish(storeID uuid.UUID, event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws event marshal failed", zap.String("type", event.Type), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- envelope{storeID: storeID, message: msg}:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients of storeID.
func (h *Hub) ClientCount(storeID uuid.UUID) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, id := range h.clients {
		if id == storeID {
			n++
		}
	}
	return n
}
