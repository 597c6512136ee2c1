/*
Package chat contains the core logic for tracking WebSocket connections and broadcasting messages.

This file defines the Client struct, representing one open WebSocket
connection. It manages the connection's lifecycle and its message pumps:
ReadPump decodes inbound payloads and hands them to the Hub, WritePump drains
the send queue and keeps the heartbeat alive.
*/
package chat

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"minichat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// sendQueueSize is the per-connection outbound buffer. A receiver that
	// falls this far behind is dropped rather than allowed to stall the relay.
	sendQueueSize = 256
)

// Client represents one active WebSocket connection.
// No user identity is bound to it; the relay is anonymous at the transport layer.
type Client struct {
	// id uniquely identifies the connection for the Hub's registry and logs.
	id string

	// hub is the registry this connection belongs to.
	hub *Hub

	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// send is the buffered queue of payloads waiting to be written out.
	send chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for a freshly upgraded connection.
func NewClient(hub *Hub, wsConn *websocket.Conn) *Client {
	id := uuid.New().String()

	clientLogger := logx.Logger().With().
		Str("conn_id", id).
		Logger()

	return &Client{
		id:     id,
		hub:    hub,
		conn:   wsConn,
		send:   make(chan []byte, sendQueueSize),
		logger: clientLogger,
	}
}

// ReadPump reads payloads from the WebSocket connection until it closes.
// It maintains the Pong deadline and performs cleanup when the connection ends.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundPayload(payload)
	}
}

// processInboundPayload decodes the payload's envelope and hands the frame to
// the Hub. Malformed payloads are logged and dropped; they never reach other
// connections and never crash the relay.
func (c *Client) processInboundPayload(payload []byte) {
	env, err := ParseEnvelope(payload)
	if err != nil {
		c.logger.Warn().Err(err).
			Bytes("payload", payload).
			Msg("Client sent malformed payload. Dropped.")
		return
	}

	c.hub.Broadcast(Frame{
		sender:   c,
		data:     payload,
		envelope: env,
	})
}

// cleanupOnDisconnect deregisters the connection and closes it once ReadPump ends.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Unregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump writes payloads from the send queue to the WebSocket connection
// and emits periodic Pings. Payloads are written in queue order, preserving
// per-sender FIFO delivery.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !c.writeQueuedPayload(payload, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedPayload writes one payload pulled from the send queue.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedPayload(payload []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping to keep the heartbeat alive.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
