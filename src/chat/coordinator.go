package chat

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/johealth/chat-backend/src/models"
)

// Coordinator glues the relationship gate, the ledger and the hub together.
// The order is always write-then-notify: the hub never hears about a message
// that is not durably in the ledger.
type Coordinator struct {
	relationships *Relationships
	ledger        *Ledger
	hub           *Hub
	log           *logrus.Entry
}

func NewCoordinator(relationships *Relationships, ledger *Ledger, hub *Hub) *Coordinator {
	return &Coordinator{
		relationships: relationships,
		ledger:        ledger,
		hub:           hub,
		log:           logrus.WithField("component", "coordinator"),
	}
}

// Send delivers a message from sender to receiver: friendship check, durable
// append, then best-effort fan-out. The persisted message is returned to the
// sender synchronously so its client is consistent even if its own socket
// missed the live push. A fan-out failure after a successful append is
// logged and swallowed, never surfaced to the sender.
func (co *Coordinator) Send(ctx context.Context, senderId, receiverId primitive.ObjectID, text string) (*models.Message, error) {
	friends, err := co.relationships.AreFriends(ctx, senderId, receiverId)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, Forbidden("you can only message your friends")
	}

	conversationId := ConversationID(senderId, receiverId)
	msg, err := co.ledger.Append(ctx, conversationId, senderId, receiverId, text)
	if err != nil {
		return nil, err
	}

	if err := co.hub.Publish(conversationId, MessageCreated(msg)); err != nil {
		co.log.WithFields(logrus.Fields{
			"conversation": conversationId,
			"message":      msg.Id.Hex(),
		}).WithError(err).Warn("live fan-out failed, message remains durable")
	}
	return msg, nil
}

// AcknowledgeSeen records that the viewer has opened the conversation:
// every "sent" message addressed to them becomes "read" in the ledger, and
// a status event lets the original sender's connections update live.
func (co *Coordinator) AcknowledgeSeen(ctx context.Context, conversationId string, viewerId primitive.ObjectID) (int64, error) {
	if !IsParticipant(conversationId, viewerId) {
		return 0, Forbidden("you are not part of this conversation")
	}

	n, err := co.ledger.MarkRead(ctx, conversationId, viewerId)
	if err != nil {
		return 0, err
	}

	if err := co.hub.Publish(conversationId, StatusChanged(conversationId, models.MessageRead)); err != nil {
		co.log.WithField("conversation", conversationId).
			WithError(err).Warn("read-receipt fan-out failed")
	}
	return n, nil
}

// History returns one chronological page of the conversation between viewer
// and peer.
func (co *Coordinator) History(ctx context.Context, viewerId, peerId primitive.ObjectID, page int64) ([]models.Message, error) {
	return co.ledger.Page(ctx, ConversationID(viewerId, peerId), page)
}

// Preview pairs a friend with the latest message of the shared conversation
// for the chat-list screen.
type Preview struct {
	Friend  models.UserDto  `json:"friend"`
	Latest  *models.Message `json:"latest,omitempty"`
	Online  bool            `json:"online"`
	RoomKey string          `json:"conversationId"`
}

// Previews builds the viewer's chat list: one entry per friend, newest
// message first, friends without history last.
func (co *Coordinator) Previews(ctx context.Context, viewerId primitive.ObjectID) ([]Preview, error) {
	friends, err := co.relationships.Friends(ctx, viewerId)
	if err != nil {
		return nil, err
	}

	out := make([]Preview, 0, len(friends))
	for _, friend := range friends {
		conversationId := ConversationID(viewerId, friend.Id)
		latest, err := co.ledger.Latest(ctx, conversationId)
		if err != nil {
			return nil, err
		}
		out = append(out, Preview{
			Friend:  friend,
			Latest:  latest,
			Online:  co.hub.IsOnline(friend.Id),
			RoomKey: conversationId,
		})
	}

	// Newest conversation first; friends without messages keep their
	// directory order at the tail.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && newer(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func newer(a, b Preview) bool {
	if a.Latest == nil {
		return false
	}
	if b.Latest == nil {
		return true
	}
	if !a.Latest.CreatedAt.Equal(b.Latest.CreatedAt) {
		return a.Latest.CreatedAt.After(b.Latest.CreatedAt)
	}
	return a.Latest.Seq > b.Latest.Seq
}
