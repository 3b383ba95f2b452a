package websockets

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewHub initializes a Hub. Run must be started before Broadcast is used.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Run dispatches registrations and broadcasts until ctx is cancelled,
// then closes every client connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Conn] = client
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[conn]; exists {
				delete(h.clients, conn)
				conn.Close()
				log.WithField("remote_addr", client.RemoteAddr).Debug("live feed client disconnected")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends v, wrapped in a Message of the given type, to every
// connected client. It returns without sending once the hub has stopped.
func (h *Hub) Broadcast(msgType string, v interface{}) error {
	msg, err := json.Marshal(Message{Type: msgType, Data: v})
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleConnections upgrades HTTP requests to WebSocket connections.
// Subscribers only receive; anything they send is discarded.
func (h *Hub) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	select {
	case h.register <- &Client{Conn: conn, RemoteAddr: r.RemoteAddr}:
	case <-h.done:
		conn.Close()
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
			return
		}
	}
}
