// Package social owns the friend graph for the local user: the friend
// list, pending requests in both directions, and their transitions.
// Every mutation is confirm-then-apply: local edges change only after
// the backend acknowledged the operation.
package social

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/fgloris/smart-meeting-go/internal/dto"
	"github.com/fgloris/smart-meeting-go/internal/errs"
)

type EdgeState int

const (
	PendingOutgoing EdgeState = iota
	PendingIncoming
	Accepted
)

func (s EdgeState) String() string {
	switch s {
	case PendingOutgoing:
		return "pending-outgoing"
	case PendingIncoming:
		return "pending-incoming"
	case Accepted:
		return "accepted"
	default:
		return fmt.Sprintf("edge-state(%d)", int(s))
	}
}

// Edge is the relationship between the local user and one friend.
// At most one edge exists per friend id.
type Edge struct {
	FriendID int64
	State    EdgeState
	Username string
	Avatar   string
}

// Gateway is the slice of the remote gateway the manager needs.
type Gateway interface {
	ListFriends(ctx context.Context, userID int64) ([]dto.Friend, error)
	PendingRequests(ctx context.Context, userID int64) ([]dto.FriendRequest, error)
	SendFriendRequest(ctx context.Context, userID, friendID int64) error
	AcceptFriendRequest(ctx context.Context, userID, friendID int64) error
	RejectFriendRequest(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error
	QuickAddFriends(ctx context.Context, userID, meetingID int64) error
}

// Manager owns the FriendEdge set for one local user. Mutations on the
// same friend id are serialized: a second one while the first is in
// flight is refused with ErrConflict.
type Manager struct {
	gw     Gateway
	log    *zap.Logger
	userID int64

	mu       sync.Mutex
	edges    map[int64]Edge
	inflight map[int64]bool
}

func New(gw Gateway, userID int64, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		gw:       gw,
		log:      log,
		userID:   userID,
		edges:    make(map[int64]Edge),
		inflight: make(map[int64]bool),
	}
}

// Refresh reconciles local state fully against the backend's
// authoritative listings instead of patching incrementally. Pending
// requests cover both directions; a pair listed as friends never also
// shows as pending.
func (m *Manager) Refresh(ctx context.Context) error {
	friends, err := m.gw.ListFriends(ctx, m.userID)
	if err != nil {
		return err
	}
	pending, err := m.gw.PendingRequests(ctx, m.userID)
	if err != nil {
		return err
	}

	edges := make(map[int64]Edge, len(friends)+len(pending))
	for _, p := range pending {
		switch {
		case p.UserID == m.userID:
			edges[p.FriendID] = Edge{FriendID: p.FriendID, State: PendingOutgoing, Username: p.Username, Avatar: p.Avatar}
		case p.FriendID == m.userID:
			edges[p.UserID] = Edge{FriendID: p.UserID, State: PendingIncoming, Username: p.Username, Avatar: p.Avatar}
		default:
			m.log.Warn("pending request does not involve local user",
				zap.Int64("user_id", p.UserID), zap.Int64("friend_id", p.FriendID))
		}
	}
	for _, f := range friends {
		// accepted wins over any stale pending row
		edges[f.UID] = Edge{FriendID: f.UID, State: Accepted, Username: f.Username, Avatar: f.Avatar}
	}
	delete(edges, m.userID)

	m.mu.Lock()
	m.edges = edges
	m.mu.Unlock()
	m.log.Debug("friend graph refreshed", zap.Int("edges", len(edges)))
	return nil
}

// SendRequest creates a pending-outgoing edge after backend
// confirmation. A pair that already has an edge in any state is a
// duplicate, checked locally first and revalidated by the server.
func (m *Manager) SendRequest(ctx context.Context, friendID int64) error {
	if friendID == m.userID {
		return fmt.Errorf("%w: cannot befriend self", errs.ErrValidation)
	}
	if err := m.begin(friendID, func(e Edge, ok bool) error {
		if ok {
			return fmt.Errorf("%w: edge already %s", errs.ErrDuplicateRequest, e.State)
		}
		return nil
	}); err != nil {
		return err
	}
	err := m.gw.SendFriendRequest(ctx, m.userID, friendID)
	m.finish(friendID, err, func() {
		m.edges[friendID] = Edge{FriendID: friendID, State: PendingOutgoing}
	})
	if errs.IsStatus(err, http.StatusConflict) {
		return fmt.Errorf("%w: %v", errs.ErrDuplicateRequest, err)
	}
	return err
}

// Accept turns a pending-incoming edge into an accepted one. The
// accepted edge is symmetric; the server owns the remote side.
func (m *Manager) Accept(ctx context.Context, friendID int64) error {
	if err := m.begin(friendID, requireState(PendingIncoming)); err != nil {
		return err
	}
	err := m.gw.AcceptFriendRequest(ctx, m.userID, friendID)
	m.finish(friendID, err, func() {
		e := m.edges[friendID]
		e.State = Accepted
		m.edges[friendID] = e
	})
	return err
}

// Reject deletes a pending-incoming edge entirely; no rejected resting
// state is retained.
func (m *Manager) Reject(ctx context.Context, friendID int64) error {
	if err := m.begin(friendID, requireState(PendingIncoming)); err != nil {
		return err
	}
	err := m.gw.RejectFriendRequest(ctx, m.userID, friendID)
	m.finish(friendID, err, func() {
		delete(m.edges, friendID)
	})
	return err
}

// Remove deletes an accepted edge. Removing an edge the server no
// longer knows about succeeds as a no-op.
func (m *Manager) Remove(ctx context.Context, friendID int64) error {
	if err := m.begin(friendID, func(e Edge, ok bool) error {
		if ok && e.State != Accepted {
			return fmt.Errorf("%w: edge is %s, not accepted", errs.ErrConflict, e.State)
		}
		return nil
	}); err != nil {
		return err
	}
	err := m.gw.RemoveFriend(ctx, m.userID, friendID)
	if errs.IsStatus(err, http.StatusNotFound) {
		err = nil
	}
	m.finish(friendID, err, func() {
		delete(m.edges, friendID)
	})
	return err
}

// QuickAdd requests pending-outgoing edges toward every meeting member
// who is not already a friend, not already pending, and not the local
// user; the backend applies that filter. Local state is reconciled by
// a full refresh afterwards.
func (m *Manager) QuickAdd(ctx context.Context, meetingID int64) error {
	if err := m.gw.QuickAddFriends(ctx, m.userID, meetingID); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Edge returns the edge toward friendID, if present.
func (m *Manager) Edge(friendID int64) (Edge, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.edges[friendID]
	return e, ok
}

// Friends lists accepted edges ordered by friend id.
func (m *Manager) Friends() []Edge { return m.list(Accepted) }

// IncomingRequests lists requests awaiting the local user's decision.
func (m *Manager) IncomingRequests() []Edge { return m.list(PendingIncoming) }

// OutgoingRequests lists requests awaiting the remote user's decision.
func (m *Manager) OutgoingRequests() []Edge { return m.list(PendingOutgoing) }

func (m *Manager) list(state EdgeState) []Edge {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Edge
	for _, e := range m.edges {
		if e.State == state {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FriendID < out[j].FriendID })
	return out
}

func requireState(want EdgeState) func(Edge, bool) error {
	return func(e Edge, ok bool) error {
		if !ok {
			return fmt.Errorf("%w: no edge for friend", errs.ErrNotFound)
		}
		if e.State != want {
			return fmt.Errorf("%w: edge is %s, not %s", errs.ErrConflict, e.State, want)
		}
		return nil
	}
}

// begin validates the precondition and marks the friend id in flight.
func (m *Manager) begin(friendID int64, check func(Edge, bool) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inflight[friendID] {
		return fmt.Errorf("%w: operation for friend %d in flight", errs.ErrConflict, friendID)
	}
	if err := check(m.edges[friendID], hasEdge(m.edges, friendID)); err != nil {
		return err
	}
	m.inflight[friendID] = true
	return nil
}

// finish clears the in-flight mark and applies the mutation only on
// gateway success.
func (m *Manager) finish(friendID int64, err error, apply func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, friendID)
	if err == nil {
		apply()
	}
}

func hasEdge(edges map[int64]Edge, friendID int64) bool {
	_, ok := edges[friendID]
	return ok
}
