package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fgloris/smart-meeting-go/internal/dto"
)

func (c *Client) ListFriends(ctx context.Context, userID int64) ([]dto.Friend, error) {
	var friends []dto.Friend
	path := fmt.Sprintf("/api/friendship/friends/%d", userID)
	if err := c.doJSON(ctx, "list_friends", http.MethodGet, path, nil, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

func (c *Client) PendingRequests(ctx context.Context, userID int64) ([]dto.FriendRequest, error) {
	var reqs []dto.FriendRequest
	path := fmt.Sprintf("/api/friendship/pending/%d", userID)
	if err := c.doJSON(ctx, "pending_requests", http.MethodGet, path, nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (c *Client) SendFriendRequest(ctx context.Context, userID, friendID int64) error {
	return c.doJSON(ctx, "send_friend_request", http.MethodPost, "/api/friendship/request",
		dto.FriendPairRequest{UserID: userID, FriendID: friendID}, nil)
}

func (c *Client) AcceptFriendRequest(ctx context.Context, userID, friendID int64) error {
	return c.doJSON(ctx, "accept_friend_request", http.MethodPut, "/api/friendship/accept",
		dto.FriendPairRequest{UserID: userID, FriendID: friendID}, nil)
}

func (c *Client) RejectFriendRequest(ctx context.Context, userID, friendID int64) error {
	return c.doJSON(ctx, "reject_friend_request", http.MethodPut, "/api/friendship/reject",
		dto.FriendPairRequest{UserID: userID, FriendID: friendID}, nil)
}

func (c *Client) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	return c.doJSON(ctx, "remove_friend", http.MethodDelete, "/api/friendship/remove",
		dto.FriendPairRequest{UserID: userID, FriendID: friendID}, nil)
}

func (c *Client) QuickAddFriends(ctx context.Context, userID, meetingID int64) error {
	return c.doJSON(ctx, "quick_add_friends", http.MethodPost, "/api/friendship/quick-add",
		dto.QuickAddRequest{UserID: userID, MeetingID: meetingID}, nil)
}
