package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fgloris/smart-meeting-go/internal/dto"
)

// ChatHistory returns the full conversation oldest first.
func (c *Client) ChatHistory(ctx context.Context, userID, friendID int64) ([]dto.Message, error) {
	var msgs []dto.Message
	path := fmt.Sprintf("/api/message/history/%d/%d", userID, friendID)
	if err := c.doJSON(ctx, "chat_history", http.MethodGet, path, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) SendMessage(ctx context.Context, senderID, receiverID int64, content string) (dto.Message, error) {
	var msg dto.Message
	err := c.doJSON(ctx, "send_message", http.MethodPost, "/api/message",
		dto.SendMessageRequest{SenderID: senderID, ReceiverID: receiverID, Content: content}, &msg)
	if err != nil {
		return dto.Message{}, err
	}
	return msg, nil
}

func (c *Client) UnreadMessages(ctx context.Context, userID int64) ([]dto.Message, error) {
	var msgs []dto.Message
	path := fmt.Sprintf("/api/message/unread/%d", userID)
	if err := c.doJSON(ctx, "unread_messages", http.MethodGet, path, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) MarkRead(ctx context.Context, messageID int64) error {
	path := fmt.Sprintf("/api/message/read/%d", messageID)
	return c.doJSON(ctx, "mark_read", http.MethodPut, path, nil, nil)
}

func (c *Client) MarkAllRead(ctx context.Context, userID, friendID int64) error {
	return c.doJSON(ctx, "mark_all_read", http.MethodPut, "/api/message/read-all",
		dto.MarkAllReadRequest{UserID: userID, FriendID: friendID}, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, messageID int64) error {
	path := fmt.Sprintf("/api/message/%d", messageID)
	return c.doJSON(ctx, "delete_message", http.MethodDelete, path, nil, nil)
}
