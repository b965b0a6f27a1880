package notes

import (
	"sync"
)

// RoomTracker enforces "at most one room per user". The mapping is kept as
// user -> set of rooms so eviction stays deterministic even if the invariant
// is ever violated by a bug; Join trims the set back to size one.
//
// Handlers run on per-connection goroutines, so unlike a cooperative
// single-threaded dispatcher this state needs explicit locking.
type RoomTracker struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{} // user -> room tokens
}

func NewRoomTracker() *RoomTracker {
	return &RoomTracker{rooms: make(map[string]map[string]struct{})}
}

// Join replaces the user's room set with {room} and returns the rooms
// vacated by that replacement, in no particular order. Joining the room the
// user already occupies vacates nothing.
func (t *RoomTracker) Join(user, room string) (vacated []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for r := range t.rooms[user] {
		if r != room {
			vacated = append(vacated, r)
		}
	}
	t.rooms[user] = map[string]struct{}{room: {}}
	return vacated
}

// Leave removes the room from the user's set and reports whether it was
// actually occupied. Leaving a room the user is not in is a no-op.
func (t *RoomTracker) Leave(user, room string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.rooms[user]
	if _, ok := set[room]; !ok {
		return false
	}
	delete(set, room)
	if len(set) == 0 {
		delete(t.rooms, user)
	}
	return true
}

// Clear removes all tracked rooms for the user (disconnect path) and
// returns them so the caller can drop the subscriptions. No leave
// notifications are emitted for a disconnect.
func (t *RoomTracker) Clear(user string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.rooms[user]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	delete(t.rooms, user)
	return out
}

// Rooms returns the user's current rooms (size <= 1 under the invariant).
func (t *RoomTracker) Rooms(user string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	set := t.rooms[user]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	return out
}
