package chat

import (
	"encoding/json"
	"time"

	"crewchat/internal/pkg/randx"
)

// Named messages exchanged with clients.
const (
	// EventRegister delivers a new user's own public view, once, right after connect.
	EventRegister = "register"

	// EventChat carries chat lines in both directions.
	EventChat = "chat"

	// EventCrew delivers the full roster snapshot.
	EventCrew = "crew"

	// EventRename is an inbound direct rename request.
	EventRename = "rename"
)

// Message is the outbound envelope written to the WebSocket.
type Message struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewMessage stamps an outbound envelope with a fresh id and the current time.
func NewMessage(event string, data any) Message {
	return Message{
		ID:        randx.MessageID(),
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ChatPayload is the data of an outbound chat message.
type ChatPayload struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// InboundMessage is the envelope clients send. Data is a JSON string for
// both chat and rename.
type InboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
