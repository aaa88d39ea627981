package rooms

type createRoomResponse struct {
	RoomCode string `json:"room_code"`
}

type listRoomsResponse struct {
	ActiveRooms []string `json:"active_rooms"`
}

type historyResponse struct {
	Messages []string `json:"messages"`
}
