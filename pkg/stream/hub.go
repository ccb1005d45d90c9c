// Package stream pushes freshly graded resolutions to WebSocket
// subscribers.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/oddslab/gradebook/pkg/grade"
)

// MessageType identifies a stream message.
type MessageType string

const (
	TypeResolution MessageType = "resolution"
	TypeStatus     MessageType = "status"
	TypeHeartbeat  MessageType = "heartbeat"
)

// allSports is the subscription wildcard.
const allSports = "*"

// Message is the wire envelope sent to clients.
type Message struct {
	Type      MessageType `json:"type"`
	SportKey  string      `json:"sport_key,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Hub manages WebSocket connections and fans resolutions out to them.
// Clients subscribe per sport key; new connections start subscribed to
// everything.
type Hub struct {
	log zerolog.Logger

	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	upgrader websocket.Upgrader
}

// NewHub creates a streaming hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:        log.With().Str("component", "stream").Logger(),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run starts the hub loop. Runs for the life of the process.
func (h *Hub) Run() {
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Int("clients", total).Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Int("clients", total).Msg("client disconnected")

		case msg := <-h.broadcast:
			h.send(msg)

		case <-heartbeat.C:
			h.send(Message{
				Type:      TypeHeartbeat,
				Timestamp: time.Now(),
				Data:      map[string]interface{}{"clients": h.ClientCount()},
			})
		}
	}
}

func (h *Hub) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal stream message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !client.wants(msg.SportKey) {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Slow consumer; drop it.
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// Broadcast queues a message for delivery, dropping it if the hub is
// backed up.
func (h *Hub) Broadcast(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Str("type", string(msg.Type)).Msg("broadcast channel full, dropping")
	}
}

// BroadcastResolution pushes a graded bet to subscribers of its sport.
func (h *Hub) BroadcastResolution(res *grade.Resolution) {
	h.Broadcast(Message{
		Type:     TypeResolution,
		SportKey: res.SportKey,
		Data:     res,
	})
}

// BroadcastStatus pushes a daemon status update.
func (h *Hub) BroadcastStatus(status interface{}) {
	h.Broadcast(Message{
		Type: TypeStatus,
		Data: status,
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades an HTTP request to a streaming connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		sports: map[string]bool{allSports: true},
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}
