package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/johealth/chat-backend/src/models"
)

// sortNewestFirst orders by creation time with the per-process sequence as
// tiebreak, so messages sharing a clock tick keep insertion order.
var sortNewestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "seq", Value: -1}}

// MessageStore keeps the conversation ledger in the messages collection.
type MessageStore struct {
	col *mongo.Collection
}

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{col: db.Collection("messages")}
}

// EnsureIndexes creates the (conversationId, createdAt) index that makes
// history pages and latest-message lookups cheap.
func (s *MessageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (s *MessageStore) Insert(ctx context.Context, msg *models.Message) error {
	_, err := s.col.InsertOne(ctx, msg)
	return err
}

func (s *MessageStore) PageDesc(ctx context.Context, conversationId string, skip, limit int64) ([]models.Message, error) {
	opts := options.Find().SetSort(sortNewestFirst).SetSkip(skip).SetLimit(limit)
	cursor, err := s.col.Find(ctx, bson.M{"conversationId": conversationId}, opts)
	if err != nil {
		return nil, err
	}

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *MessageStore) MarkRead(ctx context.Context, conversationId string, reader primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"conversationId": conversationId,
		"status":         models.MessageSent,
		"sender":         bson.M{"$ne": reader},
	}
	res, err := s.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": models.MessageRead}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *MessageStore) Latest(ctx context.Context, conversationId string) (*models.Message, error) {
	opts := options.FindOne().SetSort(sortNewestFirst)

	var msg models.Message
	err := s.col.FindOne(ctx, bson.M{"conversationId": conversationId}, opts).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
