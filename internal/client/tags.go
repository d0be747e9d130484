package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

func (c *Client) ListTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := c.doJSON(ctx, http.MethodGet, "/tags", "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) GetTag(ctx context.Context, id int64) (*model.Tag, error) {
	var tag model.Tag
	if err := c.doJSON(ctx, http.MethodGet, "/tags/:id", fmt.Sprintf("/tags/%d", id), nil, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) CreateTag(ctx context.Context, in model.TagInput) (*model.Tag, error) {
	var tag model.Tag
	if err := c.doJSON(ctx, http.MethodPost, "/tags", "/tags", in, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) UpdateTag(ctx context.Context, id int64, in model.TagInput) (*model.Tag, error) {
	var tag model.Tag
	if err := c.doJSON(ctx, http.MethodPut, "/tags/:id", fmt.Sprintf("/tags/%d", id), in, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/tags/:id", fmt.Sprintf("/tags/%d", id), nil, nil)
}
