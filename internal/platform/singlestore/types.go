package singlestore

// State is the lifecycle state of a workspace group or workspace.
type State string

// Known states. The API may report others (e.g. SUSPENDED, TERMINATED),
// which are passed through unchanged.
const (
	StateCreating State = "CREATING"
	StateActive   State = "ACTIVE"
	StateFailed   State = "FAILED"
)

// Region is a deployment region offered by the service.
type Region struct {
	ID       string `json:"regionID"`
	Name     string `json:"region"`
	Provider string `json:"provider"`
}

// WorkspaceGroup is a group of workspaces sharing network, firewall and admin settings.
type WorkspaceGroup struct {
	ID             string   `json:"workspaceGroupID"`
	Name           string   `json:"name"`
	State          State    `json:"state"`
	RegionID       string   `json:"regionID"`
	FirewallRanges []string `json:"firewallRanges,omitempty"`
	ExpiresAt      string   `json:"expiresAt,omitempty"`
	CreatedAt      string   `json:"createdAt,omitempty"`
}

// Workspace is a compute unit inside a workspace group.
// Endpoint is only set once the workspace is ACTIVE.
type Workspace struct {
	ID       string `json:"workspaceID"`
	GroupID  string `json:"workspaceGroupID"`
	Name     string `json:"name"`
	State    State  `json:"state"`
	Endpoint string `json:"endpoint,omitempty"`
	Size     string `json:"size,omitempty"`
}

// UpdateWindow is the weekly maintenance window of a workspace group.
type UpdateWindow struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

// CreateGroupRequest is the payload for creating a workspace group.
type CreateGroupRequest struct {
	Name            string       `json:"name"`
	RegionID        string       `json:"regionID"`
	AdminPassword   string       `json:"adminPassword"`
	AllowAllTraffic bool         `json:"allowAllTraffic"`
	FirewallRanges  []string     `json:"firewallRanges"`
	ExpiresAt       string       `json:"expiresAt,omitempty"`
	UpdateWindow    UpdateWindow `json:"updateWindow"`
}

// CreateWorkspaceRequest is the payload for creating a workspace.
type CreateWorkspaceRequest struct {
	Name      string `json:"name"`
	GroupID   string `json:"workspaceGroupID"`
	Size      string `json:"size,omitempty"`
	EnableKai bool   `json:"enableKai"`
}

type createGroupResponse struct {
	ID string `json:"workspaceGroupID"`
}

type createWorkspaceResponse struct {
	ID string `json:"workspaceID"`
}
