package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Message struct {
	Id             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversationId string             `json:"conversationId" bson:"conversationId"`
	Sender         primitive.ObjectID `json:"sender" bson:"sender"`
	Receiver       primitive.ObjectID `json:"receiver" bson:"receiver"`
	Text           string             `json:"text" bson:"text"`
	Status         MessageStatus      `json:"status" bson:"status"`
	Seq            int64              `json:"seq" bson:"seq"` // insertion-order tiebreak for equal timestamps
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}

type MessageStatus string

const (
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageRead      MessageStatus = "read"
)

// rank orders statuses for the monotonicity rule: a message never moves to a
// lower-ranked status.
func (s MessageStatus) rank() int {
	switch s {
	case MessageSent:
		return 0
	case MessageDelivered:
		return 1
	case MessageRead:
		return 2
	}
	return -1
}

// CanAdvanceTo reports whether a status transition is allowed. Equal statuses
// are not an advance; regressions are never allowed.
func (s MessageStatus) CanAdvanceTo(next MessageStatus) bool {
	return next.rank() > s.rank()
}
