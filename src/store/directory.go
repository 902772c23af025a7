package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/johealth/chat-backend/src/chat"
	"github.com/johealth/chat-backend/src/models"
)

// UserDirectory is the read-only identity lookup backing the messaging
// core. It projects only the minimal profile fields.
type UserDirectory struct {
	users *mongo.Collection
}

func NewUserDirectory(db *mongo.Database) *UserDirectory {
	return &UserDirectory{users: db.Collection("users")}
}

func (d *UserDirectory) Resolve(ctx context.Context, id primitive.ObjectID) (models.UserDto, error) {
	opts := options.FindOne().SetProjection(bson.M{
		"firstName": 1,
		"lastName":  1,
		"role":      1,
		"avatar":    1,
	})

	var dto models.UserDto
	err := d.users.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&dto)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.UserDto{}, chat.NotFound("no account with this id")
	}
	if err != nil {
		return models.UserDto{}, chat.Unavailable("resolving account", err)
	}
	return dto, nil
}
