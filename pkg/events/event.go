package events

import (
	"time"

	"ai-research-chat-be/pkg/chat"
	"ai-research-chat-be/pkg/chatdomain"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "CHAT_MESSAGE_INSERTED").
	EventType() string

	// Subject returns the transport subject the event is published on.
	Subject() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// MessageInserted is emitted whenever a chat message lands in durable
// storage, regardless of which instance handled the send. Subscribers bridge
// it into the in-process live feed so every open session sees it.
type MessageInserted struct {
	Message    chat.Message
	OccurredAt time.Time
}

func NewMessageInserted(msg chat.Message) MessageInserted {
	return MessageInserted{Message: msg, OccurredAt: time.Now()}
}

func (e MessageInserted) EventType() string {
	return "CHAT_MESSAGE_INSERTED"
}

func (e MessageInserted) Subject() string {
	cfg := chatdomain.ConfigFor(e.Message.Domain)
	return cfg.LiveChannelPrefix + e.Message.SessionKey.String()
}

func (e MessageInserted) Timestamp() time.Time {
	return e.OccurredAt
}
