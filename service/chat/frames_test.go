package chat

import (
	"encoding/json"
	"testing"
)

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame([]byte(`{"event":"sendMessage","data":{"room":"general","content":"hi"}}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if f.Event != EventSendMessage {
		t.Errorf("event = %q, want %q", f.Event, EventSendMessage)
	}

	p, err := DecodeSendMessage(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Room != "general" || p.Content != "hi" {
		t.Errorf("payload = %+v", p)
	}
}

func TestParseFrameRejectsGarbage(t *testing.T) {
	if _, err := ParseFrame([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed frame")
	}
	if _, err := ParseFrame([]byte(`{"data":{}}`)); err == nil {
		t.Error("expected error for frame without event")
	}
}

func TestDecodeRoomShapes(t *testing.T) {
	bare, err := ParseFrame([]byte(`{"event":"joinRoom","data":"random"}`))
	if err != nil {
		t.Fatal(err)
	}
	room, err := DecodeRoom(bare)
	if err != nil || room != "random" {
		t.Errorf("bare room = %q, err = %v", room, err)
	}

	wrapped, err := ParseFrame([]byte(`{"event":"joinRoom","data":{"room":"random"}}`))
	if err != nil {
		t.Fatal(err)
	}
	room, err = DecodeRoom(wrapped)
	if err != nil || room != "random" {
		t.Errorf("wrapped room = %q, err = %v", room, err)
	}
}

func TestFrameBuilders(t *testing.T) {
	raw := BuildJoinedRoom("general")
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		t.Fatal(err)
	}
	if f.Event != EventJoinedRoom {
		t.Errorf("event = %q", f.Event)
	}
	var room string
	if err := json.Unmarshal(f.Data, &room); err != nil || room != "general" {
		t.Errorf("data = %s", f.Data)
	}

	raw = BuildMessageError("Message content cannot be empty.")
	if err := json.Unmarshal(raw, &f); err != nil {
		t.Fatal(err)
	}
	if f.Event != EventMessageError {
		t.Errorf("event = %q", f.Event)
	}
}
