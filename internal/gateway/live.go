package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/fgloris/smart-meeting-go/internal/dto"
	"github.com/fgloris/smart-meeting-go/internal/errs"
)

// LiveClient talks to the live-streaming backend. It is a trust domain
// separate from the main API: own host, own bearer credential.
type LiveClient struct {
	baseURL string
	bearer  string
	hc      *http.Client
	log     *zap.Logger
}

func NewLive(baseURL, bearerToken string, timeout time.Duration, log *zap.Logger) *LiveClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LiveClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		bearer:  bearerToken,
		hc:      &http.Client{Timeout: timeout},
		log:     log,
	}
}

// CreateRoom provisions a live room. A non-zero envelope code is a
// failure even under HTTP 200.
func (c *LiveClient) CreateRoom(ctx context.Context, title string) (dto.LiveRoom, error) {
	const op = "create_live_room"

	if err := c.checkBearer(); err != nil {
		return dto.LiveRoom{}, fmt.Errorf("%s: %w", op, err)
	}
	data, err := json.Marshal(dto.CreateRoomRequest{Title: title})
	if err != nil {
		return dto.LiveRoom{}, fmt.Errorf("%s: encode request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/terraform/v1/live/room/create", bytes.NewReader(data))
	if err != nil {
		return dto.LiveRoom{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		_, mapped := classifyTransport(err)
		return dto.LiveRoom{}, fmt.Errorf("%s: %w", op, mapped)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.log.Debug("live backend call",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	if err := checkStatus(op, resp); err != nil {
		return dto.LiveRoom{}, err
	}

	var env dto.LiveEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return dto.LiveRoom{}, &errs.DecodeError{Op: op, Err: err}
	}
	if env.Code != 0 {
		return dto.LiveRoom{}, fmt.Errorf("%s: %w: code %d", op, errs.ErrRoomCreation, env.Code)
	}
	return env.Data, nil
}

// checkBearer refuses calls with a missing or expired bearer token.
// The token is inspected without signature verification; the live
// backend is the verifier, this is only an early local failure.
func (c *LiveClient) checkBearer() error {
	if c.bearer == "" {
		return fmt.Errorf("%w: live bearer token not configured", errs.ErrValidation)
	}
	exp, err := TokenExpiry(c.bearer)
	if err != nil {
		// opaque tokens pass through; the backend decides
		return nil
	}
	if !exp.IsZero() && time.Now().After(exp) {
		return fmt.Errorf("%w: live bearer token expired at %s", errs.ErrValidation, exp.Format(time.RFC3339))
	}
	return nil
}

// TokenExpiry extracts the exp claim from a JWT without verifying it.
// Returns the zero time when the token carries no expiry.
func TokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
