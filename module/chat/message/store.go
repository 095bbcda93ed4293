package message

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"relaychat/module/chat/model"
	"relaychat/tools/errs"
)

const (
	CollectionName = "messages"

	// HistoryLimit caps how many messages a late joiner gets back.
	HistoryLimit = 100
)

// Store persists chat messages in the messages collection.
type Store struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(CollectionName)}
}

// Insert writes one message and fills in its generated ID.
func (s *Store) Insert(ctx context.Context, msg *model.Message) error {
	res, err := s.coll.InsertOne(ctx, msg)
	if err != nil {
		return errs.WrapMsg(err, "insert message", "room", msg.Room)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// RecentByRoom returns up to limit messages for the room, oldest first.
func (s *Store) RecentByRoom(ctx context.Context, room string, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, bson.M{"room": room}, opts)
	if err != nil {
		return nil, errs.WrapMsg(err, "find messages", "room", room)
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []model.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.WrapMsg(err, "decode messages", "room", room)
	}
	return out, nil
}
