package chat

import (
	"github.com/johealth/chat-backend/src/models"
)

// Live-channel event kinds pushed to connected clients.
const (
	EventMessageCreated = "message_created"
	EventStatusChanged  = "status_changed"
	EventError          = "error"
)

// Event is the wire shape for the live channel. Fields are populated per
// kind; the rest marshal away.
type Event struct {
	Event          string               `json:"event"`
	Message        *models.Message      `json:"message,omitempty"`
	ConversationId string               `json:"conversationId,omitempty"`
	Status         models.MessageStatus `json:"status,omitempty"`
	Reason         string               `json:"reason,omitempty"`
}

func MessageCreated(msg *models.Message) Event {
	return Event{Event: EventMessageCreated, Message: msg, ConversationId: msg.ConversationId}
}

func StatusChanged(conversationId string, status models.MessageStatus) Event {
	return Event{Event: EventStatusChanged, ConversationId: conversationId, Status: status}
}

func ErrorEvent(reason string) Event {
	return Event{Event: EventError, Reason: reason}
}
