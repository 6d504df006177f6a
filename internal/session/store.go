// Package session owns the authenticated identity and the credential
// scratch state collected during the login/registration flow.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fgloris/smart-meeting-go/internal/dto"
	"github.com/fgloris/smart-meeting-go/internal/errs"
)

type State int

const (
	Anonymous State = iota
	VerificationPending
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case VerificationPending:
		return "verification-pending"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Identity is the active user. Credential is the opaque value the
// backend echoes at login; the gateway sends it on later calls.
type Identity struct {
	UID        int64  `json:"uid"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Credential string `json:"credential"`
}

// Gateway is the slice of the remote gateway the store needs.
type Gateway interface {
	Login(ctx context.Context, email, password string) (dto.User, error)
	SendVerification(ctx context.Context, email string) error
	Register(ctx context.Context, req dto.RegisterRequest) (dto.User, error)
	SetCredential(token string)
}

// Store is the session state machine:
// Anonymous -> VerificationPending -> Authenticated, with logout back
// to Anonymous from any state. Failures leave state unchanged.
type Store struct {
	gw  Gateway
	log *zap.Logger

	mu           sync.Mutex
	state        State
	identity     Identity
	pendingEmail string
}

func New(gw Gateway, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{gw: gw, log: log}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the active identity, if any.
func (s *Store) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.state == Authenticated
}

// BeginVerification asks the backend to mail a verification code.
// Idempotent: calling again resends for the recorded email.
func (s *Store) BeginVerification(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email required", errs.ErrValidation)
	}
	if err := s.gw.SendVerification(ctx, email); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingEmail = email
	if s.state == Anonymous {
		s.state = VerificationPending
	}
	s.log.Debug("verification requested", zap.String("email", email))
	return nil
}

// Login authenticates against the backend. Valid unless already
// authenticated as a different identity. No automatic retry.
func (s *Store) Login(ctx context.Context, email, password string) (Identity, error) {
	if email == "" || password == "" {
		return Identity{}, fmt.Errorf("%w: email and password required", errs.ErrValidation)
	}
	s.mu.Lock()
	if s.state == Authenticated && s.identity.Email != email {
		cur := s.identity.Email
		s.mu.Unlock()
		return Identity{}, fmt.Errorf("%w: already authenticated as %s", errs.ErrConflict, cur)
	}
	s.mu.Unlock()

	user, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{
		UID:        user.UID,
		Email:      user.UserEmail,
		Username:   user.Username,
		Credential: user.UserPassword,
	}
	s.apply(id)
	s.log.Info("logged in", zap.Int64("uid", id.UID), zap.String("username", id.Username))
	return id, nil
}

// Register creates the account and authenticates directly, merging
// locally-known fields with the server-issued uid. A prior
// BeginVerification for the same email is a protocol expectation, not
// enforced here.
func (s *Store) Register(ctx context.Context, username, password, email, code string) (Identity, error) {
	if username == "" || password == "" || email == "" || code == "" {
		return Identity{}, fmt.Errorf("%w: all registration fields required", errs.ErrValidation)
	}
	s.mu.Lock()
	if s.pendingEmail != email {
		s.log.Warn("register without matching verification request",
			zap.String("email", email), zap.String("pending", s.pendingEmail))
	}
	s.mu.Unlock()

	user, err := s.gw.Register(ctx, dto.RegisterRequest{
		Username:         username,
		UserPassword:     password,
		UserEmail:        email,
		VerificationCode: code,
	})
	if err != nil {
		return Identity{}, err
	}
	id := Identity{UID: user.UID, Email: email, Username: username, Credential: password}
	s.apply(id)
	s.log.Info("registered", zap.Int64("uid", id.UID), zap.String("username", id.Username))
	return id, nil
}

// Logout is a pure local transition. It never calls the backend and
// always succeeds.
func (s *Store) Logout() {
	s.mu.Lock()
	s.state = Anonymous
	s.identity = Identity{}
	s.pendingEmail = ""
	s.mu.Unlock()
	s.gw.SetCredential("")
	s.log.Debug("logged out")
}

// Restore installs a previously persisted identity, e.g. from the CLI
// state file, without a backend round trip.
func (s *Store) Restore(id Identity) error {
	if id.UID == 0 || id.Email == "" {
		return fmt.Errorf("%w: incomplete identity", errs.ErrValidation)
	}
	s.apply(id)
	return nil
}

func (s *Store) apply(id Identity) {
	s.mu.Lock()
	s.state = Authenticated
	s.identity = id
	s.pendingEmail = ""
	s.mu.Unlock()
	s.gw.SetCredential(id.Credential)
}
