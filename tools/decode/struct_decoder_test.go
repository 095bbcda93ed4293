package decode

import (
	"testing"
)

type payload struct {
	Room    string `json:"room"`
	Content string `json:"content"`
	Limit   int    `json:"limit"`
}

func TestDecodeMap(t *testing.T) {
	m := map[string]any{"room": "general", "content": "hi", "limit": 50}
	p, err := DecodeMap[payload](m)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Room != "general" || p.Content != "hi" || p.Limit != 50 {
		t.Errorf("decoded = %+v", p)
	}
}

func TestDecodeMapWeakTyping(t *testing.T) {
	// json.Unmarshal into map[string]any yields float64 for numbers.
	m := map[string]any{"room": "general", "limit": float64(50)}
	p, err := DecodeMap[payload](m)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Limit != 50 {
		t.Errorf("limit = %d", p.Limit)
	}
}

func TestDecodeMapIgnoresUnknownKeys(t *testing.T) {
	m := map[string]any{"room": "general", "extra": "ignored"}
	p, err := DecodeMap[payload](m)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Room != "general" {
		t.Errorf("room = %q", p.Room)
	}
}

func TestDecodeMapNil(t *testing.T) {
	if _, err := DecodeMap[payload](nil); err == nil {
		t.Error("expected error for nil map")
	}
}
