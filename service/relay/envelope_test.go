package relay

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"relaychat/module/chat/model"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	msg := &model.Message{
		ID:        primitive.NewObjectID(),
		Sender:    "alice",
		Content:   "hello",
		Room:      "general",
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
	}

	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.ID != msg.ID || got.Sender != msg.Sender || got.Content != msg.Content || got.Room != msg.Room {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, msg)
	}
	if !got.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, msg.Timestamp)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed envelope")
	}
}
