package gateway

import (
	"context"
	"net/http"

	"github.com/fgloris/smart-meeting-go/internal/dto"
)

func (c *Client) Login(ctx context.Context, email, password string) (dto.User, error) {
	var env dto.UserEnvelope
	err := c.doJSON(ctx, "login", http.MethodPost, "/api/user/login",
		dto.LoginRequest{UserEmail: email, UserPassword: password}, &env)
	if err != nil {
		return dto.User{}, err
	}
	return env.User, nil
}

func (c *Client) SendVerification(ctx context.Context, email string) error {
	return c.doJSON(ctx, "send_verification", http.MethodPost, "/api/user/send-verification",
		dto.SendVerificationRequest{UserEmail: email}, nil)
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (dto.User, error) {
	var env dto.UserEnvelope
	if err := c.doJSON(ctx, "register", http.MethodPost, "/api/user", req, &env); err != nil {
		return dto.User{}, err
	}
	return env.User, nil
}
