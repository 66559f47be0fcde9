package singlestore

import (
	"context"
	"strings"
)

// ListRegions returns all regions available to the account.
func (c *Client) ListRegions(ctx context.Context) ([]Region, error) {
	var regions []Region
	if err := c.get(ctx, "list_regions", "/v1/regions", &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

// FindRegionID resolves a region display name (e.g. "US East 1 (N. Virginia)")
// to its id. Matching is case-insensitive and exact.
func (c *Client) FindRegionID(ctx context.Context, name string) (string, error) {
	regions, err := c.ListRegions(ctx)
	if err != nil {
		return "", err
	}
	for _, r := range regions {
		if strings.EqualFold(r.Name, name) {
			return r.ID, nil
		}
	}
	return "", &NotFoundError{Kind: "region", Name: name}
}
