package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultRoom = "general"

// Message is immutable after creation. Persisted once per accepted
// send, then relayed; room ordering is insertion order.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Sender    string             `bson:"sender" json:"sender"`
	Content   string             `bson:"content" json:"content"`
	Room      string             `bson:"room" json:"room"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

func NewMessage(sender, content, room string) *Message {
	if room == "" {
		room = DefaultRoom
	}
	return &Message{
		Sender:    sender,
		Content:   content,
		Room:      room,
		Timestamp: time.Now(),
	}
}
