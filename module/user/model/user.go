package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account record. The password is stored as a bcrypt hash,
// never in clear.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
