package singlestore

import (
	"context"
	"fmt"
	"net/url"
)

const workspacesPath = "/v1/workspaces"

// ListWorkspaces returns all workspaces of a workspace group.
func (c *Client) ListWorkspaces(ctx context.Context, groupID string) ([]Workspace, error) {
	var workspaces []Workspace
	path := workspacesPath + "?workspaceGroupID=" + url.QueryEscape(groupID)
	if err := c.get(ctx, "list_workspaces", path, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// FindWorkspaceByName returns the id of the first workspace named exactly name
// within a group. The boolean is false when no workspace matches.
func (c *Client) FindWorkspaceByName(ctx context.Context, groupID, name string) (string, bool, error) {
	workspaces, err := c.ListWorkspaces(ctx, groupID)
	if err != nil {
		return "", false, err
	}
	for _, ws := range workspaces {
		if ws.Name == name {
			return ws.ID, true, nil
		}
	}
	return "", false, nil
}

// CreateWorkspace creates a workspace in a group and returns its id.
func (c *Client) CreateWorkspace(ctx context.Context, groupID string, req CreateWorkspaceRequest) (string, error) {
	req.GroupID = groupID

	var resp createWorkspaceResponse
	if err := c.post(ctx, "create_workspace", workspacesPath, req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create workspace %s: response carries no workspaceID", req.Name)
	}
	return resp.ID, nil
}

// GetWorkspace fetches a workspace by id.
func (c *Client) GetWorkspace(ctx context.Context, id string) (*Workspace, error) {
	var ws Workspace
	if err := c.get(ctx, "get_workspace", workspacesPath+"/"+url.PathEscape(id), &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// GetWorkspaceState returns the current state of a workspace.
func (c *Client) GetWorkspaceState(ctx context.Context, id string) (State, error) {
	ws, err := c.GetWorkspace(ctx, id)
	if err != nil {
		return "", err
	}
	return ws.State, nil
}
