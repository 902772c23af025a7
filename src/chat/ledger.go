package chat

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/johealth/chat-backend/src/models"
)

// DefaultPageSize is how many messages one history page holds, tuned for
// infinite scroll on the mobile client.
const DefaultPageSize = 20

// MessageStore is the durable message log. PageDesc returns newest-first
// (createdAt, then seq as tiebreak); MarkRead batch-advances every "sent"
// message not authored by the reader and reports how many changed.
type MessageStore interface {
	Insert(ctx context.Context, msg *models.Message) error
	PageDesc(ctx context.Context, conversationId string, skip, limit int64) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationId string, reader primitive.ObjectID) (int64, error)
	// Latest returns the newest message of the conversation, nil when the
	// conversation has none.
	Latest(ctx context.Context, conversationId string) (*models.Message, error)
}

// Ledger is the append-only conversation log. It is the single writer of
// message state: nothing mutates a message after creation except MarkRead.
type Ledger struct {
	store    MessageStore
	pageSize int64
	seq      atomic.Int64 // per-process insertion counter; tiebreak for equal timestamps
}

func NewLedger(store MessageStore) *Ledger {
	return &Ledger{store: store, pageSize: DefaultPageSize}
}

// Append persists a new message with initial status "sent". Text must be
// non-blank; the stored text, parties and timestamp are immutable from here
// on.
func (l *Ledger) Append(ctx context.Context, conversationId string, sender, receiver primitive.ObjectID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, Validation("message text cannot be empty")
	}

	msg := &models.Message{
		Id:             primitive.NewObjectID(),
		ConversationId: conversationId,
		Sender:         sender,
		Receiver:       receiver,
		Text:           text,
		Status:         models.MessageSent,
		Seq:            l.seq.Add(1),
		CreatedAt:      time.Now().UTC(),
	}
	if err := l.store.Insert(ctx, msg); err != nil {
		return nil, Unavailable("persisting message", err)
	}
	return msg, nil
}

// Page returns one page of history in chronological order. Pages are taken
// newest-first from the store and reversed, so page 1 is the most recent
// slice of the conversation.
func (l *Ledger) Page(ctx context.Context, conversationId string, page int64) ([]models.Message, error) {
	if page < 1 {
		return nil, Validation("page must be 1 or greater")
	}

	skip := (page - 1) * l.pageSize
	msgs, err := l.store.PageDesc(ctx, conversationId, skip, l.pageSize)
	if err != nil {
		return nil, Unavailable("loading history page", err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// MarkRead advances every "sent" message the reader did not author to
// "read" in one batch. Zero updates is a no-op, not an error, which makes
// the call idempotent.
func (l *Ledger) MarkRead(ctx context.Context, conversationId string, reader primitive.ObjectID) (int64, error) {
	n, err := l.store.MarkRead(ctx, conversationId, reader)
	if err != nil {
		return 0, Unavailable("marking messages read", err)
	}
	return n, nil
}

// Latest returns the newest message for chat-list previews, nil for an
// empty conversation.
func (l *Ledger) Latest(ctx context.Context, conversationId string) (*models.Message, error) {
	msg, err := l.store.Latest(ctx, conversationId)
	if err != nil {
		return nil, Unavailable("loading latest message", err)
	}
	return msg, nil
}
