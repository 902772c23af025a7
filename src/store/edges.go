package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EdgeStore maintains the symmetric friends arrays on the user documents.
// Insertions use $addToSet, so each one is atomic per document and safe to
// retry without duplicating an edge.
type EdgeStore struct {
	users *mongo.Collection
}

func NewEdgeStore(db *mongo.Database) *EdgeStore {
	return &EdgeStore{users: db.Collection("users")}
}

func (s *EdgeStore) AddEdge(ctx context.Context, a, b primitive.ObjectID) error {
	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": a}, bson.M{"$addToSet": bson.M{"friends": b}}); err != nil {
		return err
	}
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": b}, bson.M{"$addToSet": bson.M{"friends": a}})
	return err
}

func (s *EdgeStore) AreFriends(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{"_id": a, "friends": b})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *EdgeStore) FriendsOf(ctx context.Context, account primitive.ObjectID) ([]primitive.ObjectID, error) {
	var doc struct {
		Friends []primitive.ObjectID `bson:"friends"`
	}
	err := s.users.FindOne(ctx, bson.M{"_id": account}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc.Friends, nil
}
