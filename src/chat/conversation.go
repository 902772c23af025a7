package chat

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConversationID derives the canonical ledger key for a pair of accounts:
// both hex ids sorted and joined with "_". The same key comes out no matter
// which side asks, so "A to B" and "B to A" share one conversation. Every
// component that needs a conversation id goes through this function.
func ConversationID(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if y < x {
		x, y = y, x
	}
	return x + "_" + y
}

// Participants parses a canonical conversation id back into its two account
// ids. Fails with a validation error on anything that is not a well-formed
// canonical id.
func Participants(conversationId string) (primitive.ObjectID, primitive.ObjectID, error) {
	parts := strings.Split(conversationId, "_")
	if len(parts) != 2 {
		return primitive.NilObjectID, primitive.NilObjectID, Validation("malformed conversation id")
	}
	a, err := primitive.ObjectIDFromHex(parts[0])
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, Validation("malformed conversation id")
	}
	b, err := primitive.ObjectIDFromHex(parts[1])
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, Validation("malformed conversation id")
	}
	if ConversationID(a, b) != conversationId {
		return primitive.NilObjectID, primitive.NilObjectID, Validation("conversation id is not canonical")
	}
	return a, b, nil
}

// IsParticipant reports whether the account is one of the two parties of the
// conversation.
func IsParticipant(conversationId string, account primitive.ObjectID) bool {
	a, b, err := Participants(conversationId)
	if err != nil {
		return false
	}
	return account == a || account == b
}
