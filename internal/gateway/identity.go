package gateway

import (
	"context"
	"net/http"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
)

type userEnvelope struct {
	User user.Identity `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (user.Identity, error) {
	var out userEnvelope
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil,
		map[string]string{"email": email, "password": password}, &out)
	return out.User, err
}

func (c *Client) Register(ctx context.Context, reg user.Registration) (user.Identity, error) {
	var out userEnvelope
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, reg, &out)
	return out.User, err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/forgot-password", nil, map[string]string{"email": email}, nil)
}
