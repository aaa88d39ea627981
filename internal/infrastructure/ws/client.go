package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum frame size allowed from peer.
	maxMessageSize = 32 * 1024

	defaultSendQueueSize = 64
)

// Client owns one websocket session end to end. Inbound frames drive the
// Manager from ReadLoop; outbound frames queue on send and drain through
// WriteLoop. The Manager holds only a non-owning reference inside the room's
// member list.
type Client struct {
	ID       string
	roomCode string

	conn   *connWrapper
	send   chan string
	done   chan struct{}
	once   sync.Once
	logger *zap.SugaredLogger
}

func NewClient(conn *websocket.Conn, roomCode string, queueSize int, logger *zap.SugaredLogger) *Client {
	if queueSize <= 0 {
		queueSize = defaultSendQueueSize
	}
	return &Client{
		ID:       uuid.NewString(),
		roomCode: roomCode,
		conn:     newConnWrapper(conn),
		send:     make(chan string, queueSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

func (c *Client) RoomCode() string {
	return c.roomCode
}

// trySend queues a frame without blocking. False means the session is
// stopping or its queue is wedged; the caller treats both as a dead peer.
func (c *Client) trySend(payload string) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// NotifyRoomFull sends the terminal rejection notice and ends the session.
// Used for sessions that were never joined to a room.
func (c *Client) NotifyRoomFull() {
	_ = c.conn.WriteText(RoomFullNotice)
	c.Stop()
}

// Stop ends the session at most once: it wakes WriteLoop and closes the
// underlying connection, which in turn fails any blocked read.
func (c *Client) Stop() {
	c.once.Do(func() {
		close(c.done)
		if c.conn.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// ReadLoop blocks on inbound frames and forwards each one verbatim. Every
// exit path, normal close, network error or protocol error, runs the deferred
// cleanup, so the session leaves its room exactly once.
func (c *Client) ReadLoop(manager *Manager) {
	defer func() {
		manager.Leave(c.roomCode, c)
		c.Stop()
	}()

	c.conn.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.conn.SetPongHandler(func(string) error {
		return c.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warnw("ws read error", "room", c.roomCode, "session", c.ID, "err", err)
			}
			return
		}
		manager.RecordAndBroadcast(c.roomCode, c, string(raw))
	}
}

// WriteLoop drains the send queue and keeps the connection alive with pings.
// A failed write ends the session; the resulting read error drives the leave.
func (c *Client) WriteLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Stop()
	}()

	for {
		select {
		case payload := <-c.send:
			if err := c.conn.WriteText(payload); err != nil {
				c.logger.Warnw("ws write error", "room", c.roomCode, "session", c.ID, "err", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
