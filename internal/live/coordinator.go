// Package live negotiates ad-hoc live-streaming rooms and derives the
// ingest/playback URLs from room secrets.
package live

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fgloris/smart-meeting-go/internal/dto"
	"github.com/fgloris/smart-meeting-go/internal/errs"
)

// DefaultMediaHost is the live server that terminates ingest and
// serves playback.
const DefaultMediaHost = "47.79.86.58"

// Gateway is the slice of the live backend the coordinator needs.
type Gateway interface {
	CreateRoom(ctx context.Context, title string) (dto.LiveRoom, error)
}

// Coordinator creates and joins rooms. Room records are return values
// only; nothing is persisted across calls.
type Coordinator struct {
	gw   Gateway
	host string
	log  *zap.Logger
}

func New(gw Gateway, mediaHost string, log *zap.Logger) *Coordinator {
	if mediaHost == "" {
		mediaHost = DefaultMediaHost
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{gw: gw, host: mediaHost, log: log}
}

// CreateRoom provisions a room on the live backend and returns the
// full record including secret and room token.
func (c *Coordinator) CreateRoom(ctx context.Context, title string) (dto.LiveRoom, error) {
	room, err := c.gw.CreateRoom(ctx, title)
	if err != nil {
		return dto.LiveRoom{}, err
	}
	if _, err := uuid.Parse(room.UUID); err != nil {
		// the record is still usable; the uuid just failed a sanity check
		c.log.Warn("room uuid is not a valid uuid", zap.String("uuid", room.UUID))
	}
	c.log.Info("room created", zap.String("uuid", room.UUID), zap.String("stream", room.Stream))
	return room, nil
}

// JoinRoom builds a room view from a stream id and secret supplied out
// of band. No existence check is made against the live backend: the
// pair is trusted as given, and a bad pair surfaces when the derived
// URLs are used.
func (c *Coordinator) JoinRoom(stream, secret string) (dto.LiveRoom, error) {
	if stream == "" || secret == "" {
		return dto.LiveRoom{}, fmt.Errorf("%w: stream and secret required", errs.ErrValidation)
	}
	return dto.LiveRoom{Stream: stream, Secret: secret}, nil
}

// StreamURL derives the RTMP ingest endpoint. Pure string
// construction; reachability is the live server's responsibility.
func (c *Coordinator) StreamURL(stream, secret string) string {
	return fmt.Sprintf("rtmp://%s/live/%s?secret=%s", c.host, stream, secret)
}

// PlayURL derives the HTTP-FLV playback endpoint.
func (c *Coordinator) PlayURL(stream string) string {
	return fmt.Sprintf("http://%s/live/%s.flv", c.host, stream)
}

// RoomTokenClaims reads the server-issued room token without verifying
// it; the live backend is the verifier.
func RoomTokenClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse room token: %w", err)
	}
	return claims, nil
}
