package ws

import (
	"sync"

	"github.com/mberla/duet/internal/infrastructure/metrics"
)

// Registry is the single source of truth mapping room code to live Room.
// All mutation goes through the Manager; lock order is always registry
// before room.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Ensure returns the Room for code, creating an empty one if absent.
// Concurrent callers for the same unseen code observe the same Room. A room
// whose last member already left (closed) counts as absent and is replaced,
// so a reused code always starts with empty history.
func (reg *Registry) Ensure(code string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[code]
	if ok && !room.isClosed() {
		return room
	}

	room = newRoom(code)
	reg.rooms[code] = room
	if !ok {
		metrics.ActiveRooms.Inc()
	}
	return room
}

func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room, ok := reg.rooms[code]
	return room, ok
}

// removeIf deletes the map entry only while it still points at room. A leaver
// holding a stale pointer must not delete a fresh room created under the same
// code after its own room closed.
func (reg *Registry) removeIf(code string, room *Room) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	current, ok := reg.rooms[code]
	if !ok || current != room {
		return false
	}

	delete(reg.rooms, code)
	metrics.ActiveRooms.Dec()
	return true
}

// Remove deletes the room and its history; no-op if absent.
func (reg *Registry) Remove(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.rooms[code]; !ok {
		return
	}

	delete(reg.rooms, code)
	metrics.ActiveRooms.Dec()
}

// Codes returns a point-in-time snapshot of all room codes, unordered.
func (reg *Registry) Codes() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	codes := make([]string, 0, len(reg.rooms))
	for code := range reg.rooms {
		codes = append(codes, code)
	}
	return codes
}
