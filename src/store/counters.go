package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/johealth/chat-backend/src/models"
)

// Counters mints sequential per-role ids like "944-0007" from a counters
// collection. The $inc inside FindOneAndUpdate makes each draw atomic.
type Counters struct {
	col *mongo.Collection
}

func NewCounters(db *mongo.Database) *Counters {
	return &Counters{col: db.Collection("counters")}
}

func (c *Counters) NextID(ctx context.Context, role models.Role) (string, error) {
	spec, ok := models.RoleTable[role]
	if !ok {
		return "", fmt.Errorf("no id sequence for role %q", role)
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := c.col.FindOneAndUpdate(ctx,
		bson.M{"_id": string(role)},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", spec.IdPrefix, doc.Seq), nil
}
