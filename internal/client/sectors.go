package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

func (c *Client) ListSectors(ctx context.Context) ([]model.Sector, error) {
	var sectors []model.Sector
	if err := c.doJSON(ctx, http.MethodGet, "/sectors", "/sectors", nil, &sectors); err != nil {
		return nil, err
	}
	return sectors, nil
}

func (c *Client) GetSector(ctx context.Context, id int64) (*model.Sector, error) {
	var sector model.Sector
	if err := c.doJSON(ctx, http.MethodGet, "/sectors/:id", fmt.Sprintf("/sectors/%d", id), nil, &sector); err != nil {
		return nil, err
	}
	return &sector, nil
}

func (c *Client) CreateSector(ctx context.Context, in model.SectorInput) (*model.Sector, error) {
	var sector model.Sector
	if err := c.doJSON(ctx, http.MethodPost, "/sectors", "/sectors", in, &sector); err != nil {
		return nil, err
	}
	return &sector, nil
}

func (c *Client) UpdateSector(ctx context.Context, id int64, in model.SectorInput) (*model.Sector, error) {
	var sector model.Sector
	if err := c.doJSON(ctx, http.MethodPut, "/sectors/:id", fmt.Sprintf("/sectors/%d", id), in, &sector); err != nil {
		return nil, err
	}
	return &sector, nil
}

func (c *Client) DeleteSector(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/sectors/:id", fmt.Sprintf("/sectors/%d", id), nil, nil)
}
