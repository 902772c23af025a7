package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/johealth/chat-backend/src/models"
)

// RequestStore keeps friend requests in the friend_requests collection.
// Rejected requests are deleted, so everything in the collection is pending
// or accepted.
type RequestStore struct {
	col *mongo.Collection
}

func NewRequestStore(db *mongo.Database) *RequestStore {
	return &RequestStore{col: db.Collection("friend_requests")}
}

func (s *RequestStore) ActiveBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": a, "receiver": b},
		bson.M{"sender": b, "receiver": a},
	}}

	var req models.FriendRequest
	err := s.col.FindOne(ctx, filter).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *RequestStore) Insert(ctx context.Context, req *models.FriendRequest) error {
	_, err := s.col.InsertOne(ctx, req)
	return err
}

func (s *RequestStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *RequestStore) MarkAccepted(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{
		"status":    models.FriendRequestAccepted,
		"updatedAt": time.Now().UTC(),
	}}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (s *RequestStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *RequestStore) ListPendingFor(ctx context.Context, receiver primitive.ObjectID) ([]models.FriendRequest, error) {
	filter := bson.M{"receiver": receiver, "status": models.FriendRequestPending}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var reqs []models.FriendRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}
