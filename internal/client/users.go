package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.doJSON(ctx, http.MethodGet, "/users", "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	var users []model.User
	path := "/users/search?" + url.Values{"query": {query}}.Encode()
	if err := c.doJSON(ctx, http.MethodGet, "/users/search", path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/:id", fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in model.UpdateUser) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodPut, "/users/:id", fmt.Sprintf("/users/%d", id), in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUserPassword(ctx context.Context, id int64, in model.UpdatePassword) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodPost, "/users/:id/password", fmt.Sprintf("/users/%d/password", id), in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/users/:id", fmt.Sprintf("/users/%d", id), nil, nil)
}

// UserReports lists the reports authored by a user. The backend answers with
// either a single report or a list; both are accepted.
func (c *Client) UserReports(ctx context.Context, userID int64) ([]model.Report, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/users/:id/reports", fmt.Sprintf("/users/%d/reports", userID), nil, &raw); err != nil {
		return nil, err
	}
	return decodeReports(raw)
}

func decodeReports(raw json.RawMessage) ([]model.Report, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []model.Report{}, nil
	}
	if raw[0] == '[' {
		var reports []model.Report
		if err := json.Unmarshal(raw, &reports); err != nil {
			return nil, fmt.Errorf("decode reports: %w", err)
		}
		return reports, nil
	}

	var report model.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if report.ID == 0 {
		return []model.Report{}, nil
	}
	return []model.Report{report}, nil
}
