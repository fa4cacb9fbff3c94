package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"crewchat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// DefaultMaxMessageSize is the read limit used when none is configured.
	DefaultMaxMessageSize = 8192

	// sendQueueSize is the number of outbound frames buffered per client.
	sendQueueSize = 256
)

// Disconnect reasons reported to the router.
const (
	ReasonClientDisconnect = "client disconnect"
	ReasonPingTimeout      = "ping timeout"
	ReasonMessageTooLarge  = "message too large"
	ReasonTransportClose   = "transport close"
)

var (
	errClientClosed = errors.New("client send queue closed")
	errQueueFull    = errors.New("client send queue full")
)

// Client is one WebSocket connection. It is the user.Conn handle for the user
// created on connect and the Peer the Hub drives.
type Client struct {
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// socketID identifies the connection.
	socketID string

	// maxMessageSize is the read limit applied to inbound frames.
	maxMessageSize int64

	// a buffered channel used to queue frames waiting to be written.
	send chan []byte

	// mu guards closed and the close of send.
	mu     sync.Mutex
	closed bool

	logger zerolog.Logger
}

// NewClient wraps conn. A non-positive maxMessageSize selects DefaultMaxMessageSize.
func NewClient(hub *Hub, conn *websocket.Conn, socketID string, maxMessageSize int64) *Client {
	if maxMessageSize <= 0 {
		maxMessageSize = DefaultMaxMessageSize
	}

	return &Client{
		hub:            hub,
		conn:           conn,
		socketID:       socketID,
		maxMessageSize: maxMessageSize,
		send:           make(chan []byte, sendQueueSize),
		logger:         logx.Component("Client").With().Str("socket_id", socketID).Logger(),
	}
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.socketID
}

// Emit marshals a named message and queues it without blocking. When the
// queue is full the message is dropped and the connection is closed, which
// ends the read pump and produces a disconnect.
func (c *Client) Emit(event string, data any) error {
	frame, err := json.Marshal(NewMessage(event, data))
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", event, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errClientClosed
	}

	select {
	case c.send <- frame:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Str("event", event).Msg("Client send queue full, closing connection.")
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.logger.Error().Err(err).Msg("Client connection close error")
		}
		return errQueueFull
	}
}

// CloseSend closes the outbound queue; the write pump then sends a close frame.
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump reads inbound frames until the connection fails, then reports the
// disconnect to the hub.
func (c *Client) ReadPump() {
	reason := ReasonTransportClose
	defer func() { c.cleanupOnDisconnect(reason) }()

	c.conn.SetReadLimit(c.maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			reason = disconnectReason(err)
			if reason == ReasonTransportClose {
				c.logger.Info().Err(err).Msg("Read failed, closing client.")
			}
			return
		}

		c.processInboundMessage(frame)
	}
}

// cleanupOnDisconnect hands the disconnect to the hub and closes the socket.
// When the hub is gone the queue is closed here so the write pump can exit.
func (c *Client) cleanupOnDisconnect(reason string) {
	c.logger.Debug().Str("reason", reason).Msg("Client connection cleanup starting.")

	if !c.hub.Unregister(c, reason) {
		c.CloseSend()
	}

	if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage decodes one frame and forwards it to the hub.
func (c *Client) processInboundMessage(frame []byte) {
	var inbound InboundMessage
	if err := json.Unmarshal(frame, &inbound); err != nil {
		c.logger.Warn().Err(err).Bytes("frame", frame).Msg("Client sent invalid JSON")
		return
	}

	switch inbound.Event {
	case EventChat, EventRename:
		var text string
		if err := json.Unmarshal(inbound.Data, &text); err != nil {
			c.logger.Warn().Err(err).Str("event", inbound.Event).Msg("Client sent invalid payload")
			return
		}
		c.hub.Dispatch(c, inbound.Event, text)

	default:
		c.logger.Warn().Str("event", inbound.Event).Msg("Client sent unsupported event")
	}
}

// WritePump writes queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedMessage(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one frame, or a close frame when the queue was closed.
// It returns false when the write pump should stop.
func (c *Client) writeQueuedMessage(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")); err != nil && !isExpectedCloseError(err) {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		if !isExpectedCloseError(err) {
			c.logger.Error().Err(err).Msg("Error writing message")
		}
		return false
	}

	return true
}

// writePingMessage sends a heartbeat ping. It returns false on failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		if !isExpectedCloseError(err) {
			c.logger.Error().Err(err).Msg("Error writing ping")
		}
		return false
	}

	return true
}

// disconnectReason classifies the error that ended the read loop.
func disconnectReason(err error) string {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return ReasonClientDisconnect
	}

	if errors.Is(err, websocket.ErrReadLimit) {
		return ReasonMessageTooLarge
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonPingTimeout
	}

	return ReasonTransportClose
}

// isExpectedCloseError reports errors that only mean the socket is already closed.
func isExpectedCloseError(err error) bool {
	if err == nil || errors.Is(err, net.ErrClosed) || errors.Is(err, websocket.ErrCloseSent) {
		return true
	}
	return strings.Contains(err.Error(), "broken pipe")
}
