package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendRequest struct {
	Id        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Sender    primitive.ObjectID  `json:"sender" bson:"sender"`
	Receiver  primitive.ObjectID  `json:"receiver" bson:"receiver"`
	Status    FriendRequestStatus `json:"status" bson:"status"` // pending, accepted
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	// Rejected requests are deleted rather than stored, so the pair can
	// start over with a fresh request.
)

// PendingRequestDto is a pending request with the sender resolved to a
// minimal profile for the receiver's inbox.
type PendingRequestDto struct {
	Id        primitive.ObjectID `json:"id"`
	Sender    UserDto            `json:"sender"`
	Receiver  primitive.ObjectID `json:"receiver"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}
