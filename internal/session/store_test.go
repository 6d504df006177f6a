package session

import (
	"context"
	"errors"
	"testing"

	"github.com/fgloris/smart-meeting-go/internal/dto"
	"github.com/fgloris/smart-meeting-go/internal/errs"
)

type stubGateway struct {
	loginFunc    func(email, password string) (dto.User, error)
	verifyErr    error
	registerFunc func(req dto.RegisterRequest) (dto.User, error)

	verifyCalls []string
	credentials []string
}

func (s *stubGateway) Login(_ context.Context, email, password string) (dto.User, error) {
	if s.loginFunc != nil {
		return s.loginFunc(email, password)
	}
	return dto.User{}, errors.New("unexpected login")
}

func (s *stubGateway) SendVerification(_ context.Context, email string) error {
	s.verifyCalls = append(s.verifyCalls, email)
	return s.verifyErr
}

func (s *stubGateway) Register(_ context.Context, req dto.RegisterRequest) (dto.User, error) {
	if s.registerFunc != nil {
		return s.registerFunc(req)
	}
	return dto.User{}, errors.New("unexpected register")
}

func (s *stubGateway) SetCredential(token string) {
	s.credentials = append(s.credentials, token)
}

func TestLoginPopulatesIdentity(t *testing.T) {
	gw := &stubGateway{
		loginFunc: func(email, password string) (dto.User, error) {
			if email != "a@x.com" || password != "p1" {
				t.Fatalf("unexpected credentials %q %q", email, password)
			}
			return dto.User{UserEmail: "a@x.com", Username: "alice", UserPassword: "opaque", UID: 42}, nil
		},
	}
	s := New(gw, nil)

	id, err := s.Login(context.Background(), "a@x.com", "p1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := s.State(); got != Authenticated {
		t.Fatalf("state = %s, want authenticated", got)
	}
	if id.Username != "alice" || id.UID != 42 {
		t.Fatalf("identity = %+v", id)
	}
	if len(gw.credentials) != 1 || gw.credentials[0] != "opaque" {
		t.Fatalf("credential not installed on gateway: %v", gw.credentials)
	}
}

func TestLoginFailureLeavesAnonymous(t *testing.T) {
	gw := &stubGateway{
		loginFunc: func(string, string) (dto.User, error) {
			return dto.User{}, &errs.StatusError{Status: 401, Body: "bad credentials"}
		},
	}
	s := New(gw, nil)

	if _, err := s.Login(context.Background(), "a@x.com", "wrong"); err == nil {
		t.Fatal("expected error")
	}
	if got := s.State(); got != Anonymous {
		t.Fatalf("state = %s, want anonymous", got)
	}
	if _, ok := s.Identity(); ok {
		t.Fatal("identity should be absent after failed login")
	}
}

func TestLoginConflictWithDifferentIdentity(t *testing.T) {
	gw := &stubGateway{
		loginFunc: func(email, _ string) (dto.User, error) {
			return dto.User{UserEmail: email, Username: "alice", UID: 1}, nil
		},
	}
	s := New(gw, nil)
	if _, err := s.Login(context.Background(), "a@x.com", "p1"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	_, err := s.Login(context.Background(), "b@x.com", "p2")
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestBeginVerificationIsRepeatable(t *testing.T) {
	gw := &stubGateway{}
	s := New(gw, nil)

	for i := 0; i < 2; i++ {
		if err := s.BeginVerification(context.Background(), "a@x.com"); err != nil {
			t.Fatalf("BeginVerification #%d: %v", i+1, err)
		}
	}
	if got := s.State(); got != VerificationPending {
		t.Fatalf("state = %s, want verification-pending", got)
	}
	if len(gw.verifyCalls) != 2 {
		t.Fatalf("verify calls = %d, want 2", len(gw.verifyCalls))
	}
}

func TestBeginVerificationFailureKeepsState(t *testing.T) {
	gw := &stubGateway{verifyErr: errors.New("smtp down")}
	s := New(gw, nil)

	if err := s.BeginVerification(context.Background(), "a@x.com"); err == nil {
		t.Fatal("expected error")
	}
	if got := s.State(); got != Anonymous {
		t.Fatalf("state = %s, want anonymous", got)
	}
}

func TestRegisterMergesLocalFieldsWithServerUID(t *testing.T) {
	gw := &stubGateway{
		registerFunc: func(req dto.RegisterRequest) (dto.User, error) {
			if req.VerificationCode != "123456" {
				t.Fatalf("verification code = %q", req.VerificationCode)
			}
			return dto.User{UID: 7}, nil
		},
	}
	s := New(gw, nil)
	if err := s.BeginVerification(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("BeginVerification: %v", err)
	}

	id, err := s.Register(context.Background(), "alice", "p1", "a@x.com", "123456")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id.UID != 7 || id.Username != "alice" || id.Email != "a@x.com" {
		t.Fatalf("identity = %+v", id)
	}
	if got := s.State(); got != Authenticated {
		t.Fatalf("state = %s, want authenticated", got)
	}
}

func TestLogoutIsLocalAndAlwaysSucceeds(t *testing.T) {
	gw := &stubGateway{
		loginFunc: func(email, _ string) (dto.User, error) {
			return dto.User{UserEmail: email, Username: "alice", UserPassword: "opaque", UID: 1}, nil
		},
	}
	s := New(gw, nil)
	if _, err := s.Login(context.Background(), "a@x.com", "p1"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	s.Logout()
	if got := s.State(); got != Anonymous {
		t.Fatalf("state = %s, want anonymous", got)
	}
	if got := gw.credentials[len(gw.credentials)-1]; got != "" {
		t.Fatalf("credential after logout = %q, want cleared", got)
	}
}

func TestRestoreRejectsIncompleteIdentity(t *testing.T) {
	s := New(&stubGateway{}, nil)
	if err := s.Restore(Identity{Email: "a@x.com"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if err := s.Restore(Identity{UID: 3, Email: "a@x.com", Username: "alice"}); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := s.State(); got != Authenticated {
		t.Fatalf("state = %s, want authenticated", got)
	}
}
