package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/demolab/internal/config"
	"github.com/imamik/demolab/internal/metrics"
	"github.com/imamik/demolab/internal/platform/singlestore"
	"github.com/imamik/demolab/internal/util/poll"
)

const (
	phaseDatabase = "database"

	resourceGroup     = "workspace group"
	resourceWorkspace = "workspace"
)

// Orchestrator provisions one workspace group and its workspaces.
// It is not safe for concurrent use.
type Orchestrator struct {
	session *Session
	groupID string
}

// GroupID returns the ID of the established workspace group, or "".
func (o *Orchestrator) GroupID() string {
	return o.groupID
}

// AdoptGroup makes id the established workspace group without any remote call.
func (o *Orchestrator) AdoptGroup(id string) {
	o.groupID = id
}

// EnsureGroup returns the ID of the ACTIVE workspace group named in the request.
//
// An existing group with that name is adopted as is. Otherwise the region is
// resolved, the group is created, and the call blocks until it is ACTIVE.
func (o *Orchestrator) EnsureGroup(ctx context.Context) (string, error) {
	req := o.session.request
	if req == nil {
		return "", &PreconditionError{Operation: "EnsureGroup", Requirement: "a provisioning request"}
	}

	client := o.session.client
	observer := o.session.observer

	id, found, err := client.FindGroupByName(ctx, req.Name)
	if err != nil {
		return "", fmt.Errorf("failed to look up workspace group %q: %w", req.Name, err)
	}

	if found {
		LogResourceExists(observer, phaseDatabase, resourceGroup, req.Name, id)
	} else {
		regionID, err := client.FindRegionID(ctx, req.RegionName)
		if err != nil {
			return "", fmt.Errorf("failed to resolve region for workspace group %q: %w", req.Name, err)
		}

		LogResourceCreating(observer, phaseDatabase, resourceGroup, req.Name)
		id, err = client.CreateGroup(ctx, req.createGroupRequest(regionID))
		if err != nil {
			LogResourceFailed(observer, phaseDatabase, resourceGroup, req.Name, err)
			return "", fmt.Errorf("failed to create workspace group %q: %w", req.Name, err)
		}
		LogResourceCreated(observer, phaseDatabase, resourceGroup, req.Name, id)
	}

	fetch := func(ctx context.Context) (string, error) {
		state, err := client.GetGroupState(ctx, id)
		return string(state), err
	}
	if err := o.await(ctx, resourceGroup, req.Name, id, o.session.timeouts.GroupActive, fetch); err != nil {
		return "", fmt.Errorf("workspace group %q (%s) did not become ACTIVE: %w", req.Name, id, err)
	}

	o.groupID = id
	return id, nil
}

// EnsureWorkspaces makes sure every requested workspace exists and is ACTIVE,
// in request order. The group is ensured first if none is established.
//
// The first failure stops the batch and is returned; workspaces created
// before it are left in place and no partial result is returned.
func (o *Orchestrator) EnsureWorkspaces(ctx context.Context) ([]singlestore.Workspace, error) {
	req := o.session.request
	if req == nil {
		return nil, &PreconditionError{Operation: "EnsureWorkspaces", Requirement: "a provisioning request"}
	}

	if o.groupID == "" {
		if _, err := o.EnsureGroup(ctx); err != nil {
			return nil, err
		}
	}

	workspaces := make([]singlestore.Workspace, 0, len(req.Workspaces))
	for i, spec := range req.Workspaces {
		ws, err := o.ensureWorkspace(ctx, spec)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure workspace %q: %w", spec.Name, err)
		}
		workspaces = append(workspaces, *ws)
		o.session.observer.Progress(phaseDatabase, i+1, len(req.Workspaces))
	}

	return workspaces, nil
}

func (o *Orchestrator) ensureWorkspace(ctx context.Context, spec config.WorkspaceConfig) (*singlestore.Workspace, error) {
	client := o.session.client
	observer := o.session.observer

	id, found, err := client.FindWorkspaceByName(ctx, o.groupID, spec.Name)
	if err != nil {
		return nil, fmt.Errorf("lookup failed: %w", err)
	}

	if found {
		LogResourceExists(observer, phaseDatabase, resourceWorkspace, spec.Name, id)
	} else {
		LogResourceCreating(observer, phaseDatabase, resourceWorkspace, spec.Name)
		id, err = client.CreateWorkspace(ctx, o.groupID, singlestore.CreateWorkspaceRequest{
			Name:      spec.Name,
			Size:      spec.Size,
			EnableKai: spec.EnableKai,
		})
		if err != nil {
			LogResourceFailed(observer, phaseDatabase, resourceWorkspace, spec.Name, err)
			return nil, fmt.Errorf("create failed: %w", err)
		}
		LogResourceCreated(observer, phaseDatabase, resourceWorkspace, spec.Name, id)
	}

	var last *singlestore.Workspace
	fetch := func(ctx context.Context) (string, error) {
		ws, err := client.GetWorkspace(ctx, id)
		if err != nil {
			return "", err
		}
		last = ws
		return string(ws.State), nil
	}
	if err := o.await(ctx, resourceWorkspace, spec.Name, id, o.session.timeouts.WorkspaceActive, fetch); err != nil {
		return nil, fmt.Errorf("workspace %s did not become ACTIVE: %w", id, err)
	}

	return last, nil
}

// WorkspaceDetails returns the connection details of every workspace in the
// established group. It fails without any remote call when no group is
// established.
func (o *Orchestrator) WorkspaceDetails(ctx context.Context) (Details, error) {
	if o.groupID == "" {
		return nil, &PreconditionError{
			Operation:   "WorkspaceDetails",
			Requirement: "an established workspace group (call EnsureGroup or AdoptGroup first)",
		}
	}

	workspaces, err := o.session.client.ListWorkspaces(ctx, o.groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces of group %s: %w", o.groupID, err)
	}
	if len(workspaces) == 0 {
		return nil, &EmptyResultError{Resource: "workspaces", Scope: "workspace group " + o.groupID}
	}

	details := make(Details, len(workspaces))
	for _, ws := range workspaces {
		details[ws.Name] = NewConnectionDetails(ws.Endpoint, o.session.adminUsername, o.session.adminPassword)
	}
	return details, nil
}

// await blocks until fetch reports ACTIVE, recording every attempt.
func (o *Orchestrator) await(ctx context.Context, kind, name, id string, timeout time.Duration, fetch poll.FetchFunc) error {
	observer := o.session.observer
	interval := o.session.timeouts.PollInterval
	clock := o.session.clock

	LogResourceWaiting(observer, phaseDatabase, kind, name, id, timeout)
	start := clock.Now()

	err := poll.AwaitState(ctx, id, fetch, string(singlestore.StateActive),
		poll.WithTimeout(timeout),
		poll.WithInterval(interval),
		poll.WithClock(clock),
		poll.WithFailureStates(string(singlestore.StateFailed)),
		poll.WithOnPoll(func(attempt int, state string) {
			metrics.RecordPollAttempt(kind, state)
			if state != string(singlestore.StateActive) {
				observer.Printf("[%s] %s %s is %s (attempt %d, next check in %v)", phaseDatabase, kind, name, state, attempt, interval)
			}
		}),
	)
	waited := clock.Now().Sub(start)
	metrics.RecordPollDuration(kind, err, waited)

	if err != nil {
		LogResourceFailed(observer, phaseDatabase, kind, name, err)
		return err
	}
	LogResourceReady(observer, phaseDatabase, kind, name, id, waited)
	return nil
}
