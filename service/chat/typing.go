package chat

import (
	"sync"
)

// TypingTracker keeps the ephemeral set of identities typing per room.
// Entries leave on stopTyping, on sending a message, or on disconnect.
// There is no server-side expiry: a lost stop-typing event leaves the
// indicator to client-side timers.
type TypingTracker struct {
	mu     sync.Mutex
	typing map[string]map[string]struct{} // room -> set<username>
}

func NewTypingTracker() *TypingTracker {
	return &TypingTracker{typing: make(map[string]map[string]struct{})}
}

func (t *TypingTracker) Start(room, username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set := t.typing[room]
	if set == nil {
		set = make(map[string]struct{})
		t.typing[room] = set
	}
	set[username] = struct{}{}
}

func (t *TypingTracker) Stop(room, username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if set := t.typing[room]; set != nil {
		delete(set, username)
		if len(set) == 0 {
			delete(t.typing, room)
		}
	}
}

// IsTyping reports whether username is currently typing in room.
func (t *TypingTracker) IsTyping(room, username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.typing[room][username]
	return ok
}

// Typing returns a snapshot of usernames typing in room.
func (t *TypingTracker) Typing(room string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	set := t.typing[room]
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	return out
}
