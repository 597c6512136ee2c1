/*
Package chat contains the core logic for tracking WebSocket connections and broadcasting messages.

This file defines the Hub struct, the process-wide registry of open
connections and the relay that fans every accepted payload out to them.
Registration, deregistration, and broadcasting all flow through a single run
loop, so a sender's payloads reach each receiver in the order they arrived.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"minichat/internal/pkg/logx"
)

const broadcastChannelBuffer = 1024

// Hub tracks the set of active client connections and relays payloads to them.
type Hub struct {
	// clients maps connection ID to the active client.
	clients map[string]*Client

	// broadcast is a buffered channel of inbound frames awaiting fan-out.
	broadcast chan Frame

	// register is the channel for newly upgraded connections.
	register chan *Client

	// unregister is the channel for connections leaving on close or error.
	unregister chan *Client

	// stopChan signals the run loop to terminate.
	stopChan chan struct{}

	// stopOnce guards the close of stopChan so Shutdown is safe to call
	// from multiple goroutines.
	stopOnce sync.Once

	// filter decides which decoded payloads are forwarded.
	filter FilterFunc

	// echoSender controls whether the sender receives its own payloads.
	echoSender bool

	// mu protects access to the clients map.
	mu sync.RWMutex

	// wg waits for the run loop to finish during shutdown.
	wg sync.WaitGroup

	// structured logger with hub context.
	logger zerolog.Logger
}

// NewHub constructs a Hub with the given forwarding policy and starts its run loop.
func NewHub(filter FilterFunc, echoSender bool) *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	if filter == nil {
		filter = ForwardAll
	}

	h := &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Frame, broadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopChan:   make(chan struct{}),
		filter:     filter,
		echoSender: echoSender,
		logger:     hubLogger,
	}

	h.wg.Add(1)
	go h.run()

	return h
}

// run is the Hub's main event loop, handling client registration,
// deregistration, and payload fan-out until Shutdown is called.
func (h *Hub) run() {
	defer h.wg.Done()

	h.logger.Info().Msg("Hub run loop started.")

	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case frame := <-h.broadcast:
			h.relay(frame)

		case <-h.stopChan:
			h.closeAllClients()
			h.logger.Info().Msg("Hub run loop stopped.")
			return
		}
	}
}

// addClient records a newly upgraded connection as active.
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.id]; ok {
		h.logger.Warn().Str("conn_id", client.id).Msg("Connection ID already registered. Ignoring duplicate.")
		return
	}

	h.clients[client.id] = client
	h.logger.Info().
		Str("conn_id", client.id).
		Int("total_connections", len(h.clients)).
		Msg("Connection registered.")
}

// removeClient drops a connection. Removing an already-removed connection is a no-op.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[client.id]; !ok || current != client {
		return
	}

	delete(h.clients, client.id)

	// The registry check above makes removal once-only, so the close cannot
	// double-fire. Closing unconditionally signals WritePump even when the
	// queue still holds payloads; buffered payloads stay readable after close.
	close(client.send)

	h.logger.Info().
		Str("conn_id", client.id).
		Int("total_connections", len(h.clients)).
		Msg("Connection removed.")
}

// relay forwards one frame to every active connection.
// It iterates a snapshot of the registry so concurrent add/remove never
// corrupts the walk. Delivery is best effort and independent per target: a
// full or closing target is dropped from the registry, never blocking the rest.
func (h *Hub) relay(frame Frame) {
	if !h.filter(frame.envelope) {
		h.logger.Debug().Str("msg_type", frame.envelope.Type).Msg("Payload filtered out by forwarding policy.")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		if !h.echoSender && frame.sender != nil && client.id == frame.sender.id {
			continue
		}
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	var stalled []*Client

	for _, client := range targets {
		select {
		case client.send <- frame.data:
		default:
			h.logger.Warn().
				Str("conn_id", client.id).
				Msg("Client send queue full or closed, dropping connection.")
			stalled = append(stalled, client)
		}
	}

	for _, client := range stalled {
		h.removeClient(client)
	}
}

// closeAllClients drops every connection. Called once, from the run loop, on shutdown.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
}

// Register queues a newly upgraded connection for registration.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stopChan:
		h.logger.Warn().Str("conn_id", client.id).Msg("Registration rejected: hub is shutting down.")
	}
}

// Unregister queues a connection for removal.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopChan:
	}
}

// Broadcast queues a frame for fan-out to every active connection.
func (h *Hub) Broadcast(frame Frame) {
	select {
	case h.broadcast <- frame:
	case <-h.stopChan:
	}
}

// ActiveConnections returns the number of currently registered connections.
func (h *Hub) ActiveConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Shutdown stops the run loop, drops all connections, and waits for the loop to exit.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down Hub...")

	h.stopOnce.Do(func() {
		close(h.stopChan)
	})

	h.wg.Wait()
	h.logger.Info().Msg("Hub shutdown complete.")
}
