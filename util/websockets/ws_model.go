package websockets

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeReportCreated = "report_created"
)

// Client represents a connected live-feed subscriber
type Client struct {
	Conn       *websocket.Conn
	RemoteAddr string
}

type Hub struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.Mutex
}

// Message is the envelope written to every subscriber.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
