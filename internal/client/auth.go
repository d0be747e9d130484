package client

import (
	"context"
	"net/http"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

func (c *Client) Login(ctx context.Context, in model.Credentials) (*model.AuthUser, error) {
	var auth model.AuthUser
	if err := c.doJSON(ctx, http.MethodPost, "/login", "/login", in, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) Register(ctx context.Context, in model.SignUp) (*model.AuthUser, error) {
	var auth model.AuthUser
	if err := c.doJSON(ctx, http.MethodPost, "/register", "/register", in, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Logout revokes the bound token on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/logout", "/logout", nil, nil)
}

// CurrentUser resolves the identity behind the bound token.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/user", "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
