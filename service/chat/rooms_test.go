package chat

import (
	"testing"
)

func TestJoinMovesBetweenRooms(t *testing.T) {
	r := NewRoomRegistry()

	if prev := r.Join("c1", "general"); prev != "" {
		t.Errorf("first join returned prev=%q", prev)
	}
	if !r.IsMember("c1", "general") {
		t.Fatal("c1 should be in general")
	}

	if prev := r.Join("c1", "random"); prev != "general" {
		t.Errorf("expected prev=general, got %q", prev)
	}
	if r.IsMember("c1", "general") {
		t.Error("c1 must not remain in general after moving")
	}
	if !r.IsMember("c1", "random") {
		t.Error("c1 should be in random")
	}
}

func TestConnectionNeverInTwoRooms(t *testing.T) {
	r := NewRoomRegistry()
	rooms := []string{"a", "b", "c", "a", "b"}
	for _, room := range rooms {
		r.Join("c1", room)
		count := 0
		for _, candidate := range []string{"a", "b", "c"} {
			for _, id := range r.Members(candidate) {
				if id == "c1" {
					count++
				}
			}
		}
		if count != 1 {
			t.Fatalf("after joining %q c1 is in %d rooms", room, count)
		}
	}
}

func TestRejoinSameRoomIsLeaveAndRejoin(t *testing.T) {
	r := NewRoomRegistry()
	r.Join("c1", "general")
	if prev := r.Join("c1", "general"); prev != "general" {
		t.Errorf("re-joining the same room reported prev=%q, want general", prev)
	}
	if !r.IsMember("c1", "general") {
		t.Error("c1 should still be in general")
	}
	if got := len(r.Members("general")); got != 1 {
		t.Errorf("general has %d members, want 1", got)
	}
}

func TestLeaveClearsMembership(t *testing.T) {
	r := NewRoomRegistry()
	r.Join("c1", "general")
	r.Join("c2", "general")

	if room := r.Leave("c1"); room != "general" {
		t.Errorf("Leave returned %q", room)
	}
	if r.Room("c1") != "" {
		t.Error("c1 should have no room after leave")
	}
	if got := len(r.Members("general")); got != 1 {
		t.Errorf("general should have 1 member, got %d", got)
	}

	if room := r.Leave("c1"); room != "" {
		t.Errorf("second leave returned %q", room)
	}
}

func TestMembersSnapshot(t *testing.T) {
	r := NewRoomRegistry()
	r.Join("c1", "general")
	r.Join("c2", "general")
	r.Join("c3", "random")

	members := r.Members("general")
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if len(r.Members("nosuch")) != 0 {
		t.Error("unknown room should have no members")
	}
}
