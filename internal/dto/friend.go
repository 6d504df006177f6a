package dto

import "time"

// Friend is one row of the authoritative friends listing.
type Friend struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// FriendRequest is one row of the pending (incoming) request listing.
type FriendRequest struct {
	UserID    int64     `json:"user_id"`
	FriendID  int64     `json:"friend_id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// FriendPairRequest addresses an edge by its two endpoints. It is the
// body for request/accept/reject/remove.
type FriendPairRequest struct {
	UserID   int64 `json:"user_id"`
	FriendID int64 `json:"friend_id"`
}

type QuickAddRequest struct {
	UserID    int64 `json:"user_id"`
	MeetingID int64 `json:"meeting_id"`
}
