package chat

import (
	"sync"
)

// RoomRegistry tracks which room each connection is in. A connection
// belongs to at most one room: joining another room is a move, never
// an add. Forward map connID -> room plus inverse room -> conn set,
// both mutated under one lock.
type RoomRegistry struct {
	mu      sync.RWMutex
	current map[string]string              // connID -> room
	members map[string]map[string]struct{} // room -> set<connID>
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		current: make(map[string]string),
		members: make(map[string]map[string]struct{}),
	}
}

// Join moves the connection into room and returns the room it left,
// if any. Rejoining the current room is a leave and rejoin, so prev
// is reported then too and the caller's leave side effects fire.
func (r *RoomRegistry) Join(connID, room string) (prev string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev = r.current[connID]
	if prev != "" {
		r.dropLocked(connID, prev)
	}

	r.current[connID] = room
	set := r.members[room]
	if set == nil {
		set = make(map[string]struct{})
		r.members[room] = set
	}
	set[connID] = struct{}{}
	return prev
}

// Leave removes the connection from whatever room it is in and
// returns that room.
func (r *RoomRegistry) Leave(connID string) (room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room = r.current[connID]
	if room == "" {
		return ""
	}
	r.dropLocked(connID, room)
	delete(r.current, connID)
	return room
}

func (r *RoomRegistry) dropLocked(connID, room string) {
	if set := r.members[room]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.members, room)
		}
	}
	delete(r.current, connID)
}

// IsMember reports whether the connection currently belongs to room.
func (r *RoomRegistry) IsMember(connID, room string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return room != "" && r.current[connID] == room
}

// Room returns the connection's current room, "" if none.
func (r *RoomRegistry) Room(connID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current[connID]
}

// Members returns a snapshot of the connection IDs in room.
func (r *RoomRegistry) Members(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.members[room]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
