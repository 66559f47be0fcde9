package provisioning

import (
	"context"

	"github.com/imamik/demolab/internal/config"
	"github.com/imamik/demolab/internal/platform/singlestore"
	"github.com/imamik/demolab/internal/stack"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Lab name, used for the workspace group and the stack
	Name string

	// Caller identity reported by the cloud provider (credentials phase)
	CallerIdentity string

	// Template results (populated by the template phase)
	TemplateName string
	Template     *stack.Template
	Workspaces   []config.WorkspaceConfig // what to create
	TTLHours     int

	// Database results (populated by the database phase)
	GroupID string
	Created []singlestore.Workspace
	Details Details

	// Stack results (populated by the stack phase)
	Stack *stack.Result
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Observer Observer
	Timeouts *config.Timeouts
	RunID    string
}

// NewContext creates a new provisioning context with a console observer
// and timeouts from the environment.
func NewContext(ctx context.Context, cfg *config.Config, runID string) *Context {
	observer := NewConsoleObserver().WithFields(map[string]string{"run": runID})
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Observer: observer,
		Timeouts: config.LoadTimeouts(),
		RunID:    runID,
	}
}
