package websocket

import (
	"time"

	"karaoke/types"

	"github.com/charmbracelet/log"
)

// Hub interface defines the methods for managing WebSocket connections
type Hub interface {
	Run()
	Stop()
	BroadcastQueue(snapshot types.QueueSnapshot)
	RegisterClient(client *Client)
	UnregisterClient(client *Client)
	ClientCount() int
}

// hub maintains the set of active clients and broadcasts queue updates to them
type hub struct {
	// Registered clients
	clients map[*Client]bool

	// Last snapshot that went out, pushed to every new client
	latest types.QueueSnapshot

	// Broadcast channel for queue updates, drained by Run
	broadcast chan types.QueueMessage

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Client count requests
	count chan chan int

	done   chan struct{}
	logger *log.Logger
}

// NewHub creates a new WebSocket hub starting from an empty queue
func NewHub(logger *log.Logger) Hub {
	return &hub{
		clients:    make(map[*Client]bool),
		latest:     types.EmptySnapshot(),
		broadcast:  make(chan types.QueueMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's main event loop. It returns after Stop.
func (h *hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("websocket client connected", "client", client.id, "clients", len(h.clients))
			h.deliver(client, h.message(h.latest))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Debug("websocket client disconnected", "client", client.id, "clients", len(h.clients))
			}

		case message := <-h.broadcast:
			h.latest = message.Data
			for client := range h.clients {
				h.deliver(client, message)
			}

		case reply := <-h.count:
			reply <- len(h.clients)

		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

// Stop closes every client and ends Run
func (h *hub) Stop() {
	close(h.done)
}

// BroadcastQueue queues a snapshot for every connected client.
// Updates are never dropped here; Run must be running.
func (h *hub) BroadcastQueue(snapshot types.QueueSnapshot) {
	select {
	case h.broadcast <- h.message(snapshot):
	case <-h.done:
	}
}

// RegisterClient registers a new client with the hub
func (h *hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// UnregisterClient unregisters a client from the hub
func (h *hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

func (h *hub) message(snapshot types.QueueSnapshot) types.QueueMessage {
	return types.QueueMessage{
		Event:     types.EventQueueUpdate,
		Data:      snapshot,
		Timestamp: time.Now(),
	}
}

// deliver hands a message to a client, dropping the client if it cannot keep up
func (h *hub) deliver(client *Client, message types.QueueMessage) {
	select {
	case client.send <- message:
	default:
		h.logger.Warn("websocket client too slow, disconnecting", "client", client.id)
		h.drop(client)
	}
}

func (h *hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
}
