package ws

import "sync"

// roomCapacity is what makes this a one-to-one relay rather than a group chat.
const roomCapacity = 2

// Room holds the live state of one two-party conversation. members keeps join
// order and never exceeds roomCapacity; history is append-only for the life of
// the room. Both are guarded by mu. closed marks a room whose last member has
// left: such a room is already (or about to be) gone from the registry and
// must never accept joins or messages again.
type Room struct {
	code string

	mu      sync.RWMutex
	members []*Client
	history []string
	closed  bool
}

func newRoom(code string) *Room {
	return &Room{
		code:    code,
		members: make([]*Client, 0, roomCapacity),
	}
}

func (r *Room) isClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// memberCount is used by tests and logging; the capacity invariant itself is
// enforced under the write lock in Manager.Join.
func (r *Room) memberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
