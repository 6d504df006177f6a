package dto

import "time"

type CreateRoomRequest struct {
	Title string `json:"title"`
}

// LiveRoom is the live backend's room record. Secret is required to
// derive the ingest URL; RoomToken scopes later room calls.
type LiveRoom struct {
	UUID      string    `json:"uuid"`
	Title     string    `json:"title"`
	Stream    string    `json:"stream"`
	Secret    string    `json:"secret"`
	Assistant bool      `json:"assistant"`
	AIChat    bool      `json:"aiChat"`
	RoomToken string    `json:"roomToken"`
	CreatedAt time.Time `json:"created_at"`
}

// LiveEnvelope wraps every live-backend response; Code != 0 means the
// call failed even when the HTTP status is 200.
type LiveEnvelope struct {
	Code   int      `json:"code"`
	Data   LiveRoom `json:"data"`
	Server string   `json:"server"`
}
