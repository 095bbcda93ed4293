package chat

import (
	"testing"
)

func TestTypingStartStop(t *testing.T) {
	tr := NewTypingTracker()

	tr.Start("general", "alice")
	if !tr.IsTyping("general", "alice") {
		t.Fatal("alice should be typing in general")
	}
	if tr.IsTyping("random", "alice") {
		t.Error("alice is not typing in random")
	}

	tr.Stop("general", "alice")
	if tr.IsTyping("general", "alice") {
		t.Error("alice should not be typing after stop")
	}
}

func TestTypingSnapshot(t *testing.T) {
	tr := NewTypingTracker()
	tr.Start("general", "alice")
	tr.Start("general", "bob")

	if got := len(tr.Typing("general")); got != 2 {
		t.Errorf("expected 2 typing, got %d", got)
	}

	tr.Stop("general", "alice")
	tr.Stop("general", "bob")
	if got := len(tr.Typing("general")); got != 0 {
		t.Errorf("expected empty set, got %d", got)
	}
}

func TestStopUnknownIsNoop(t *testing.T) {
	tr := NewTypingTracker()
	tr.Stop("general", "ghost") // must not panic
	if tr.IsTyping("general", "ghost") {
		t.Error("ghost should not be typing")
	}
}
