package rooms

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/mberla/duet/internal/infrastructure/json"
	"github.com/mberla/duet/internal/infrastructure/ws"
	"go.uber.org/zap"
)

type Handler struct {
	manager   *ws.Manager
	upgrader  websocket.Upgrader
	queueSize int
	logger    *zap.SugaredLogger
}

func NewHandler(manager *ws.Manager, allowedOrigins []string, queueSize int, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		queueSize: queueSize,
		logger:    logger,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := h.manager.CreateRoom()

	json.Write(w, http.StatusCreated, createRoomResponse{RoomCode: code})
}

func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	codes := h.manager.ActiveRooms()
	if codes == nil {
		codes = []string{}
	}

	json.Write(w, http.StatusOK, listRoomsResponse{ActiveRooms: codes})
}

func (h *Handler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "roomCode")
	if code == "" {
		json.WriteValidationError(w, errors.New("room code is missing"))
		return
	}

	messages, err := h.manager.SnapshotHistory(code)
	if err != nil {
		if errors.Is(err, ws.ErrRoomNotFound) {
			json.WriteNotFoundError(w, err, "Room not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}
	if messages == nil {
		messages = []string{}
	}

	json.Write(w, http.StatusOK, historyResponse{Messages: messages})
}

// JoinRoomHandler upgrades the connection and attaches the session to its
// room. A session rejected for capacity gets one terminal notice frame and is
// closed; it never touches room state.
func (h *Handler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "roomCode")
	if code == "" {
		json.WriteValidationError(w, errors.New("room code is missing"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("ws upgrade failed", "room", code, "err", err)
		return
	}

	client := ws.NewClient(conn, code, h.queueSize, h.logger)

	if h.manager.Join(code, client) == ws.JoinRejectedRoomFull {
		client.NotifyRoomFull()
		return
	}

	go client.WriteLoop()
	go client.ReadLoop(h.manager)
}
