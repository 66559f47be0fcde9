package singlestore

import (
	"context"
	"fmt"
	"net/url"
)

const workspaceGroupsPath = "/v1/workspaceGroups"

// ListGroups returns all workspace groups of the account.
func (c *Client) ListGroups(ctx context.Context) ([]WorkspaceGroup, error) {
	var groups []WorkspaceGroup
	if err := c.get(ctx, "list_groups", workspaceGroupsPath, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// FindGroupByName returns the id of the first group named exactly name.
// The boolean is false when no group matches.
func (c *Client) FindGroupByName(ctx context.Context, name string) (string, bool, error) {
	groups, err := c.ListGroups(ctx)
	if err != nil {
		return "", false, err
	}
	for _, g := range groups {
		if g.Name == name {
			return g.ID, true, nil
		}
	}
	return "", false, nil
}

// CreateGroup creates a workspace group and returns its id.
// The group is created asynchronously; its state starts out as CREATING.
func (c *Client) CreateGroup(ctx context.Context, req CreateGroupRequest) (string, error) {
	var resp createGroupResponse
	if err := c.post(ctx, "create_group", workspaceGroupsPath, req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create workspace group %s: response carries no workspaceGroupID", req.Name)
	}
	return resp.ID, nil
}

// GetGroup fetches a workspace group by id.
func (c *Client) GetGroup(ctx context.Context, id string) (*WorkspaceGroup, error) {
	var g WorkspaceGroup
	if err := c.get(ctx, "get_group", workspaceGroupsPath+"/"+url.PathEscape(id), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGroupState returns the current state of a workspace group.
func (c *Client) GetGroupState(ctx context.Context, id string) (State, error) {
	g, err := c.GetGroup(ctx, id)
	if err != nil {
		return "", err
	}
	return g.State, nil
}
