package chat

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/johealth/chat-backend/src/models"
)

// Directory is the read-only boundary to the account subsystem. Unknown ids
// come back as a not-found error, never as a panic into the messaging flow.
type Directory interface {
	Resolve(ctx context.Context, id primitive.ObjectID) (models.UserDto, error)
}
