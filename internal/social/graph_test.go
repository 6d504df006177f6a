package social

import (
	"context"
	"errors"
	"testing"

	"github.com/fgloris/smart-meeting-go/internal/dto"
	"github.com/fgloris/smart-meeting-go/internal/errs"
)

// fakeBackend models the server's friendship tables so Refresh sees
// authoritative listings after each mutation.
type fakeBackend struct {
	userID  int64
	friends map[int64]string          // friend id -> username
	pending []dto.FriendRequest       // both directions
	members map[int64][]int64         // meeting id -> member uids
	blocked chan struct{}             // when set, SendFriendRequest waits
	started chan struct{}             // signaled when a blocked send begins
	errOn   map[string]error          // operation name -> forced error

	sendCalls int
}

func newFakeBackend(userID int64) *fakeBackend {
	return &fakeBackend{
		userID:  userID,
		friends: make(map[int64]string),
		members: make(map[int64][]int64),
		errOn:   make(map[string]error),
	}
}

func (f *fakeBackend) ListFriends(context.Context, int64) ([]dto.Friend, error) {
	if err := f.errOn["list_friends"]; err != nil {
		return nil, err
	}
	var out []dto.Friend
	for uid, name := range f.friends {
		out = append(out, dto.Friend{UID: uid, Username: name})
	}
	return out, nil
}

func (f *fakeBackend) PendingRequests(context.Context, int64) ([]dto.FriendRequest, error) {
	return append([]dto.FriendRequest(nil), f.pending...), nil
}

func (f *fakeBackend) SendFriendRequest(_ context.Context, userID, friendID int64) error {
	f.sendCalls++
	if f.blocked != nil {
		f.started <- struct{}{}
		<-f.blocked
	}
	if err := f.errOn["send_friend_request"]; err != nil {
		return err
	}
	f.pending = append(f.pending, dto.FriendRequest{UserID: userID, FriendID: friendID})
	return nil
}

func (f *fakeBackend) AcceptFriendRequest(_ context.Context, userID, friendID int64) error {
	if err := f.errOn["accept_friend_request"]; err != nil {
		return err
	}
	f.dropPending(friendID, userID)
	f.friends[friendID] = ""
	return nil
}

func (f *fakeBackend) RejectFriendRequest(_ context.Context, userID, friendID int64) error {
	f.dropPending(friendID, userID)
	return nil
}

func (f *fakeBackend) RemoveFriend(_ context.Context, _, friendID int64) error {
	if err := f.errOn["remove_friend"]; err != nil {
		return err
	}
	delete(f.friends, friendID)
	return nil
}

func (f *fakeBackend) QuickAddFriends(_ context.Context, userID, meetingID int64) error {
	for _, uid := range f.members[meetingID] {
		if uid == userID {
			continue
		}
		if _, ok := f.friends[uid]; ok {
			continue
		}
		if f.hasPending(userID, uid) {
			continue
		}
		f.pending = append(f.pending, dto.FriendRequest{UserID: userID, FriendID: uid})
	}
	return nil
}

func (f *fakeBackend) dropPending(fromID, toID int64) {
	kept := f.pending[:0]
	for _, p := range f.pending {
		if p.UserID == fromID && p.FriendID == toID {
			continue
		}
		kept = append(kept, p)
	}
	f.pending = kept
}

func (f *fakeBackend) hasPending(a, b int64) bool {
	for _, p := range f.pending {
		if (p.UserID == a && p.FriendID == b) || (p.UserID == b && p.FriendID == a) {
			return true
		}
	}
	return false
}

func TestSendRequestThenAcceptYieldsAcceptedOnly(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(1)

	// user 2's side: an incoming request from user 1
	backend.pending = []dto.FriendRequest{{UserID: 1, FriendID: 2, Username: "alice"}}
	m := New(backend, 2, nil)
	if err := m.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if e, ok := m.Edge(1); !ok || e.State != PendingIncoming {
		t.Fatalf("edge = %+v ok=%v, want pending-incoming", e, ok)
	}

	if err := m.Accept(ctx, 1); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	e, ok := m.Edge(1)
	if !ok || e.State != Accepted {
		t.Fatalf("edge = %+v ok=%v, want accepted", e, ok)
	}
	if n := len(m.IncomingRequests()) + len(m.OutgoingRequests()); n != 0 {
		t.Fatalf("pending edges remain: %d", n)
	}

	// the server is the source of truth for both sides; refresh agrees
	if err := m.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if e, _ := m.Edge(1); e.State != Accepted {
		t.Fatalf("edge after refresh = %+v, want accepted", e)
	}
}

func TestRejectLeavesNoEdge(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(2)
	backend.pending = []dto.FriendRequest{{UserID: 1, FriendID: 2}}
	m := New(backend, 2, nil)
	if err := m.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := m.Reject(ctx, 1); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, ok := m.Edge(1); ok {
		t.Fatal("edge should be absent after reject, not in a rejected state")
	}
	if err := m.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, ok := m.Edge(1); ok {
		t.Fatal("server still lists the pair after reject")
	}
}

func TestSendRequestDuplicateDetectedLocally(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(1)
	m := New(backend, 1, nil)

	if err := m.SendRequest(ctx, 2); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	err := m.SendRequest(ctx, 2)
	if !errors.Is(err, errs.ErrDuplicateRequest) {
		t.Fatalf("err = %v, want ErrDuplicateRequest", err)
	}
	if backend.sendCalls != 1 {
		t.Fatalf("gateway called %d times, want 1 (duplicate checked locally)", backend.sendCalls)
	}
}

func TestSendRequestServerConflictMapsToDuplicate(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(1)
	backend.errOn["send_friend_request"] = &errs.StatusError{Status: 409, Body: "exists"}
	m := New(backend, 1, nil)

	err := m.SendRequest(ctx, 2)
	if !errors.Is(err, errs.ErrDuplicateRequest) {
		t.Fatalf("err = %v, want ErrDuplicateRequest", err)
	}
	if _, ok := m.Edge(2); ok {
		t.Fatal("no edge may be recorded for a rejected request")
	}
}

func TestSendRequestFailureAddsNoEdge(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(1)
	backend.errOn["send_friend_request"] = errors.New("boom")
	m := New(backend, 1, nil)

	if err := m.SendRequest(ctx, 2); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := m.Edge(2); ok {
		t.Fatal("confirm-then-apply: failed call must not mutate local state")
	}
}

func TestAcceptRequiresPendingIncoming(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(1)
	backend.friends[2] = "bob"
	m := New(backend, 1, nil)
	if err := m.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := m.Accept(ctx, 2); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("accept on accepted edge: err = %v, want ErrConflict", err)
	}
	if err := m.Accept(ctx, 99); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("accept on absent edge: err = %v, want ErrNotFound", err)
	}
}

func TestRemoveIsIdempotentOnNotFound(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(1)
	backend.errOn["remove_friend"] = &errs.StatusError{Status: 404, Body: "no such edge"}
	m := New(backend, 1, nil)

	if err := m.Remove(ctx, 5); err != nil {
		t.Fatalf("Remove of absent edge should be a no-op success, got %v", err)
	}
}

func TestRemoveRequiresAcceptedEdge(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(1)
	m := New(backend, 1, nil)
	if err := m.SendRequest(ctx, 2); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	if err := m.Remove(ctx, 2); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestConcurrentMutationsOnSameFriendRefused(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(1)
	backend.blocked = make(chan struct{})
	backend.started = make(chan struct{})
	m := New(backend, 1, nil)

	done := make(chan error, 1)
	go func() { done <- m.SendRequest(ctx, 2) }()

	<-backend.started // first call is now in flight
	if err := m.SendRequest(ctx, 2); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("second mutation: err = %v, want ErrConflict", err)
	}
	close(backend.blocked)
	if err := <-done; err != nil {
		t.Fatalf("first mutation: %v", err)
	}
}

func TestQuickAddSkipsFriendsAndSelf(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(1)
	backend.friends[2] = "bob"
	backend.members[7] = []int64{1, 2, 3}
	m := New(backend, 1, nil)
	if err := m.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := m.QuickAdd(ctx, 7); err != nil {
		t.Fatalf("QuickAdd: %v", err)
	}
	out := m.OutgoingRequests()
	if len(out) != 1 || out[0].FriendID != 3 {
		t.Fatalf("outgoing = %+v, want exactly one edge for member 3", out)
	}
	if e, _ := m.Edge(2); e.State != Accepted {
		t.Fatalf("existing friendship disturbed: %+v", e)
	}
}

func TestRefreshNeverShowsFriendAsPending(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(1)
	backend.friends[2] = "bob"
	// stale pending row for the same pair
	backend.pending = []dto.FriendRequest{{UserID: 1, FriendID: 2}}
	m := New(backend, 1, nil)

	if err := m.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n := len(m.OutgoingRequests()); n != 0 {
		t.Fatalf("friend also listed as pending: %d outgoing", n)
	}
	if e, _ := m.Edge(2); e.State != Accepted {
		t.Fatalf("edge = %+v, want accepted", e)
	}
}
