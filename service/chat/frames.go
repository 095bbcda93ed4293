package chat

import (
	"encoding/json"
	"fmt"

	"relaychat/module/chat/model"
	"relaychat/tools/decode"
)

// Client -> server events.
const (
	EventJoinRoom    = "joinRoom"
	EventSendMessage = "sendMessage"
	EventTyping      = "typing"
	EventStopTyping  = "stopTyping"
)

// Server -> client events.
const (
	EventJoinedRoom        = "joinedRoom"
	EventReceiveMessage    = "receiveMessage"
	EventMessageError      = "messageError"
	EventUserTyping        = "userTyping"
	EventUserStoppedTyping = "userStoppedTyping"
)

// Frame is the wire shape in both directions: an event name plus a
// JSON payload.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendMessagePayload is the sendMessage intent body.
type SendMessagePayload struct {
	Room    string `json:"room"`
	Content string `json:"content"`
}

// RoomPayload covers joinRoom / typing / stopTyping, which carry just
// a room name (either as a bare string or as {"room": ...}).
type RoomPayload struct {
	Room string `json:"room"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("unmarshal frame failed: %w", err)
	}
	if f.Event == "" {
		return nil, fmt.Errorf("frame has no event")
	}
	return &f, nil
}

// DecodeSendMessage extracts the sendMessage payload.
func DecodeSendMessage(f *Frame) (*SendMessagePayload, error) {
	var m map[string]any
	if err := json.Unmarshal(f.Data, &m); err != nil {
		return nil, fmt.Errorf("sendMessage payload: %w", err)
	}
	return decode.DecodeMap[SendMessagePayload](m)
}

// DecodeRoom extracts the room argument; accepts both "general" and
// {"room":"general"} shapes.
func DecodeRoom(f *Frame) (string, error) {
	var s string
	if err := json.Unmarshal(f.Data, &s); err == nil {
		return s, nil
	}
	var m map[string]any
	if err := json.Unmarshal(f.Data, &m); err != nil {
		return "", fmt.Errorf("room payload: %w", err)
	}
	p, err := decode.DecodeMap[RoomPayload](m)
	if err != nil {
		return "", err
	}
	return p.Room, nil
}

// ---- server-side frame builders ----

func marshalFrame(event string, data any) []byte {
	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte("null")
	}
	out, _ := json.Marshal(Frame{Event: event, Data: payload})
	return out
}

func BuildJoinedRoom(room string) []byte {
	return marshalFrame(EventJoinedRoom, room)
}

func BuildReceiveMessage(msg *model.Message) []byte {
	return marshalFrame(EventReceiveMessage, msg)
}

func BuildMessageError(text string) []byte {
	return marshalFrame(EventMessageError, text)
}

func BuildUserTyping(username string) []byte {
	return marshalFrame(EventUserTyping, username)
}

func BuildUserStoppedTyping(username string) []byte {
	return marshalFrame(EventUserStoppedTyping, username)
}
