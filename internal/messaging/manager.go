// Package messaging owns per-conversation message ordering, unread
// counters and read-state propagation for the local user. A
// conversation is the derived, ordered message set toward one friend;
// it has no storage of its own.
package messaging

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fgloris/smart-meeting-go/internal/dto"
	"github.com/fgloris/smart-meeting-go/internal/errs"
)

// Gateway is the slice of the remote gateway the manager needs.
type Gateway interface {
	ChatHistory(ctx context.Context, userID, friendID int64) ([]dto.Message, error)
	SendMessage(ctx context.Context, senderID, receiverID int64, content string) (dto.Message, error)
	UnreadMessages(ctx context.Context, userID int64) ([]dto.Message, error)
	MarkRead(ctx context.Context, messageID int64) error
	MarkAllRead(ctx context.Context, userID, friendID int64) error
	DeleteMessage(ctx context.Context, messageID int64) error
}

// conversation tracks a fetch sequence so a slow stale history
// response cannot overwrite a fresher one.
type conversation struct {
	messages []dto.Message
	issued   uint64
	applied  uint64
}

type Manager struct {
	gw     Gateway
	log    *zap.Logger
	userID int64

	mu    sync.Mutex
	convs map[int64]*conversation
}

func New(gw Gateway, userID int64, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{gw: gw, log: log, userID: userID, convs: make(map[int64]*conversation)}
}

// Send delivers content to receiverID and appends the server-returned
// message; the id and timestamp are server-assigned, never fabricated.
func (m *Manager) Send(ctx context.Context, receiverID int64, content string) (dto.Message, error) {
	if strings.TrimSpace(content) == "" {
		return dto.Message{}, errs.ErrEmptyContent
	}
	msg, err := m.gw.SendMessage(ctx, m.userID, receiverID, content)
	if err != nil {
		return dto.Message{}, err
	}
	m.mu.Lock()
	c := m.conv(receiverID)
	c.messages = insertMessage(c.messages, msg)
	m.mu.Unlock()
	return msg, nil
}

// FetchHistory replaces the conversation with the backend's full
// ordered history. Fetches are sequenced per conversation: a response
// is dropped when a later-issued fetch has already resolved.
func (m *Manager) FetchHistory(ctx context.Context, friendID int64) ([]dto.Message, error) {
	m.mu.Lock()
	c := m.conv(friendID)
	c.issued++
	seq := c.issued
	m.mu.Unlock()

	msgs, err := m.gw.ChatHistory(ctx, m.userID, friendID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq <= c.applied {
		m.log.Debug("stale history response dropped",
			zap.Int64("friend_id", friendID),
			zap.Uint64("seq", seq), zap.Uint64("applied", c.applied))
		return copyMessages(c.messages), nil
	}
	c.applied = seq
	ordered := copyMessages(msgs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})
	c.messages = ordered
	return copyMessages(ordered), nil
}

// RefreshUnread merges the backend's unread listing into local
// conversations so unread counters are correct before any history
// fetch.
func (m *Manager) RefreshUnread(ctx context.Context) error {
	msgs, err := m.gw.UnreadMessages(ctx, m.userID)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range msgs {
		if msg.ReceiverID != m.userID {
			continue
		}
		c := m.conv(msg.SenderID)
		c.messages = insertMessage(c.messages, msg)
	}
	return nil
}

// MarkRead flags one received message as read. The flag moves
// false->true only; marking an already-read message is a no-op success
// without a backend call.
func (m *Manager) MarkRead(ctx context.Context, messageID int64) error {
	m.mu.Lock()
	msg, _, ok := m.find(messageID)
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: message %d", errs.ErrNotFound, messageID)
	}
	if msg.IsRead {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	if err := m.gw.MarkRead(ctx, messageID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, _, ok := m.find(messageID); ok {
		cur.IsRead = true
	}
	return nil
}

// MarkAllRead flags every message in the conversation where the local
// user is the receiver. A conversation with nothing unread is a no-op
// success.
func (m *Manager) MarkAllRead(ctx context.Context, friendID int64) error {
	if m.UnreadCount(friendID) == 0 {
		return nil
	}
	if err := m.gw.MarkAllRead(ctx, m.userID, friendID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.conv(friendID)
	for i := range c.messages {
		if c.messages[i].ReceiverID == m.userID {
			c.messages[i].IsRead = true
		}
	}
	return nil
}

// UnreadCount is a pure local computation; it never calls the backend.
func (m *Manager) UnreadCount(friendID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.convs[friendID]
	if !ok {
		return 0
	}
	return countUnread(c.messages, m.userID)
}

// TotalUnread sums unread counts across all known conversations.
func (m *Manager) TotalUnread() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, c := range m.convs {
		total += countUnread(c.messages, m.userID)
	}
	return total
}

// DeleteMessage removes a message after backend confirmation. Deletion
// is terminal. Absent both locally and remotely is ErrNotFound; a
// remote 404 with a local copy present still deletes locally.
func (m *Manager) DeleteMessage(ctx context.Context, messageID int64) error {
	m.mu.Lock()
	_, _, local := m.find(messageID)
	m.mu.Unlock()

	err := m.gw.DeleteMessage(ctx, messageID)
	if errs.IsStatus(err, http.StatusNotFound) {
		if !local {
			return fmt.Errorf("%w: message %d", errs.ErrNotFound, messageID)
		}
		err = nil
	}
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.convs {
		for i := range c.messages {
			if c.messages[i].ID == messageID {
				c.messages = append(c.messages[:i], c.messages[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

// Conversation returns the local view of the conversation, oldest
// first, without contacting the backend.
func (m *Manager) Conversation(friendID int64) []dto.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.convs[friendID]
	if !ok {
		return nil
	}
	return copyMessages(c.messages)
}

// conv returns the conversation record, creating it if needed. Callers
// hold m.mu.
func (m *Manager) conv(friendID int64) *conversation {
	c, ok := m.convs[friendID]
	if !ok {
		c = &conversation{}
		m.convs[friendID] = c
	}
	return c
}

// find locates a message by id across conversations. Callers hold m.mu.
func (m *Manager) find(messageID int64) (*dto.Message, *conversation, bool) {
	for _, c := range m.convs {
		for i := range c.messages {
			if c.messages[i].ID == messageID {
				return &c.messages[i], c, true
			}
		}
	}
	return nil, nil, false
}

// insertMessage keeps the sequence ordered and free of duplicate ids.
func insertMessage(msgs []dto.Message, msg dto.Message) []dto.Message {
	for i := range msgs {
		if msgs[i].ID == msg.ID {
			return msgs
		}
	}
	msgs = append(msgs, msg)
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
	return msgs
}

func countUnread(msgs []dto.Message, userID int64) int {
	n := 0
	for _, msg := range msgs {
		if msg.ReceiverID == userID && !msg.IsRead {
			n++
		}
	}
	return n
}

func copyMessages(msgs []dto.Message) []dto.Message {
	return append([]dto.Message(nil), msgs...)
}
