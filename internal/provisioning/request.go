package provisioning

import (
	"fmt"
	"net"
	"slices"
	"strings"
	"time"

	"github.com/imamik/demolab/internal/config"
	"github.com/imamik/demolab/internal/platform/singlestore"
)

// Request describes the workspace group and workspaces to provision.
// Build it with NewRequest; a Request returned from there is valid and is
// never modified afterwards.
type Request struct {
	Name            string
	AdminUsername   string
	AdminPassword   string
	RegionName      string
	AllowAllTraffic bool
	FirewallRanges  []string
	ExpiresAt       time.Time
	UpdateWindow    singlestore.UpdateWindow
	Workspaces      []config.WorkspaceConfig
}

// NewRequest validates r against now and returns a normalized copy.
// Workspaces without a size get config.DefaultWorkspaceSize.
func NewRequest(r Request, now time.Time) (*Request, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, &config.ValidationError{Field: "name", Message: "required"}
	}
	if r.AdminUsername == "" {
		return nil, &config.ValidationError{Field: "admin_username", Message: "required"}
	}
	if r.AdminPassword == "" {
		return nil, &config.ValidationError{Field: "admin_password", Message: fmt.Sprintf("required (set %s)", config.EnvAdminPassword)}
	}
	if strings.TrimSpace(r.RegionName) == "" {
		return nil, &config.ValidationError{Field: "region", Message: "required"}
	}
	if len(r.Workspaces) == 0 {
		return nil, &config.ValidationError{Field: "workspaces", Message: "at least one workspace is required"}
	}
	if err := config.ValidateWorkspaces(r.Workspaces); err != nil {
		return nil, err
	}
	for i, cidr := range r.FirewallRanges {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return nil, &config.ValidationError{
				Field:   fmt.Sprintf("firewall_ranges[%d]", i),
				Message: fmt.Sprintf("invalid CIDR %q", cidr),
			}
		}
	}
	if err := config.ValidateUpdateWindow(r.UpdateWindow.Day, r.UpdateWindow.Hour); err != nil {
		return nil, err
	}
	if !r.ExpiresAt.After(now) {
		return nil, &config.ValidationError{
			Field:   "expires_at",
			Message: fmt.Sprintf("%s is not in the future", r.ExpiresAt.Format(time.RFC3339)),
		}
	}

	out := r
	out.FirewallRanges = slices.Clone(r.FirewallRanges)
	out.Workspaces = make([]config.WorkspaceConfig, len(r.Workspaces))
	for i, ws := range r.Workspaces {
		if ws.Size == "" {
			ws.Size = config.DefaultWorkspaceSize
		}
		out.Workspaces[i] = ws
	}
	return &out, nil
}

// RequestFromConfig builds a request for the named lab from the loaded
// configuration, the workspace list to create and the lab lifetime.
func RequestFromConfig(cfg *config.Config, name string, workspaces []config.WorkspaceConfig, ttl time.Duration, now time.Time) (*Request, error) {
	ss := cfg.SingleStore
	r := Request{
		Name:            name,
		AdminUsername:   ss.AdminUsername,
		AdminPassword:   ss.AdminPassword,
		RegionName:      ss.Region,
		AllowAllTraffic: ss.AllowAllTraffic,
		FirewallRanges:  ss.FirewallRanges,
		ExpiresAt:       now.Add(ttl).UTC().Truncate(time.Second),
		Workspaces:      workspaces,
	}
	if ss.UpdateWindow.Day != nil {
		r.UpdateWindow.Day = *ss.UpdateWindow.Day
	}
	if ss.UpdateWindow.Hour != nil {
		r.UpdateWindow.Hour = *ss.UpdateWindow.Hour
	}
	return NewRequest(r, now)
}

func (r *Request) createGroupRequest(regionID string) singlestore.CreateGroupRequest {
	return singlestore.CreateGroupRequest{
		Name:            r.Name,
		RegionID:        regionID,
		AdminPassword:   r.AdminPassword,
		AllowAllTraffic: r.AllowAllTraffic,
		FirewallRanges:  append([]string{}, r.FirewallRanges...),
		ExpiresAt:       r.ExpiresAt.UTC().Format(time.RFC3339),
		UpdateWindow:    r.UpdateWindow,
	}
}
