package ws

import (
	"errors"

	"github.com/google/uuid"
	"github.com/mberla/duet/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomFullNotice is the terminal frame sent to a session rejected because the
// room already holds two members.
const RoomFullNotice = "Room is full"

type JoinResult int

const (
	JoinAccepted JoinResult = iota
	JoinRejectedRoomFull
)

// Manager orchestrates join, leave and message fan-out against the registry.
// Per-room mutation is serialized on the room lock; no lock is ever held
// across a blocking send.
type Manager struct {
	registry     *Registry
	logger       *zap.SugaredLogger
	historyLimit uint
}

func NewManager(logger *zap.SugaredLogger, historyLimit uint) *Manager {
	return &Manager{
		registry:     NewRegistry(),
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// CreateRoom issues a fresh short code and eagerly registers an empty room
// for it, so the room is listable (with empty history) before anyone joins.
func (m *Manager) CreateRoom() string {
	for {
		code := uuid.NewString()[:8]
		if _, ok := m.registry.Get(code); ok {
			continue
		}
		m.registry.Ensure(code)
		m.logger.Infow("room created", "room", code)
		return code
	}
}

// Join adds the client to the room for code, creating the room if needed.
// The capacity check and the append happen under one critical section, so two
// concurrent joiners can fill a room but a third can never slip past the
// check. A rejected client is never added to members.
func (m *Manager) Join(code string, c *Client) JoinResult {
	for {
		room := m.registry.Ensure(code)

		room.mu.Lock()
		if room.closed {
			// Lost a race with the last leaver; the registry entry is being
			// torn down. Start over with a fresh room.
			room.mu.Unlock()
			continue
		}
		if len(room.members) >= roomCapacity {
			room.mu.Unlock()
			metrics.JoinsRejected.Inc()
			m.logger.Infow("join rejected, room full", "room", code, "session", c.ID)
			return JoinRejectedRoomFull
		}
		room.members = append(room.members, c)
		room.mu.Unlock()

		metrics.ActiveSessions.Inc()
		m.logger.Infow("session joined room", "room", code, "session", c.ID)
		return JoinAccepted
	}
}

// Leave removes the client from the room if present; calling it again for the
// same client is a no-op. The last leaver marks the room closed and removes
// it, history included, from the registry.
func (m *Manager) Leave(code string, c *Client) {
	room, ok := m.registry.Get(code)
	if !ok {
		return
	}

	room.mu.Lock()
	idx := -1
	for i, member := range room.members {
		if member == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		room.mu.Unlock()
		return
	}
	room.members = append(room.members[:idx], room.members[idx+1:]...)
	last := len(room.members) == 0
	if last {
		room.closed = true
	}
	room.mu.Unlock()

	metrics.ActiveSessions.Dec()
	if last {
		m.registry.removeIf(code, room)
		m.logger.Infow("room destroyed", "room", code)
	}
	m.logger.Infow("session left room", "room", code, "session", c.ID)
}

// RecordAndBroadcast appends the payload to the room history and hands it to
// every member except the sender. If the room was destroyed concurrently the
// payload is dropped silently. The queue handoff is non-blocking and happens
// under the room lock, which is what keeps live delivery order identical to
// history order; a member that cannot accept the frame is treated as already
// disconnected and torn down, its Leave arriving through its own read loop.
func (m *Manager) RecordAndBroadcast(code string, sender *Client, payload string) {
	room, ok := m.registry.Get(code)
	if !ok {
		return
	}

	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		return
	}

	room.history = append(room.history, payload)
	if m.historyLimit > 0 && uint(len(room.history)) > m.historyLimit {
		room.history = room.history[len(room.history)-int(m.historyLimit):]
	}

	for _, member := range room.members {
		if member == sender {
			continue
		}
		if !member.trySend(payload) {
			m.logger.Warnw("send queue unavailable, dropping session",
				"room", code, "session", member.ID)
			go member.Stop()
		}
	}
	room.mu.Unlock()

	metrics.MessagesRelayed.Inc()
}

// SnapshotHistory returns a copy of the room's message history.
func (m *Manager) SnapshotHistory(code string) ([]string, error) {
	room, ok := m.registry.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.mu.RLock()
	defer room.mu.RUnlock()
	if room.closed {
		return nil, ErrRoomNotFound
	}

	history := make([]string, len(room.history))
	copy(history, room.history)
	return history, nil
}

// ActiveRooms lists the codes of all rooms currently in the registry.
func (m *Manager) ActiveRooms() []string {
	return m.registry.Codes()
}

// MemberCount reports the current occupancy of a room, 0 if it is unknown.
func (m *Manager) MemberCount(code string) int {
	room, ok := m.registry.Get(code)
	if !ok {
		return 0
	}
	return room.memberCount()
}
