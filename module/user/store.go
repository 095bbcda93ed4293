package user

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"relaychat/module/user/model"
	"relaychat/tools/errs"
)

const CollectionName = "users"

// Store persists accounts in the users collection.
type Store struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique username index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errs.WrapMsg(err, "ensure users index")
}

// Insert creates the account; a duplicate username surfaces as a
// mongo duplicate-key error for the caller to map to a conflict.
func (s *Store) Insert(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	res, err := s.coll.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// FindByUsername returns (nil, nil) when the account does not exist.
func (s *Store) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errs.WrapMsg(err, "find user", "username", username)
	}
	return &u, nil
}

// Search finds users whose name contains term (case-insensitive),
// excluding the requesting user.
func (s *Store) Search(ctx context.Context, term, excludeID string) ([]model.User, error) {
	filter := bson.M{
		"username": bson.M{"$regex": term, "$options": "i"},
	}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	opts := options.Find().SetProjection(bson.M{"username": 1})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.WrapMsg(err, "search users", "term", term)
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []model.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.WrapMsg(err, "decode users")
	}
	return out, nil
}

// IsDup reports whether err is a unique-index violation.
func IsDup(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
