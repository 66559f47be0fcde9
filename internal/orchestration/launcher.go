package orchestration

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/demolab/internal/config"
	"github.com/imamik/demolab/internal/provisioning"
	"github.com/imamik/demolab/internal/stack"
)

// TemplateLoader fetches templates and catalogs.
type TemplateLoader interface {
	LoadTemplate(ctx context.Context, source string) (*stack.Template, error)
	LoadCatalog(ctx context.Context, source string) (*stack.Catalog, error)
}

// IdentityFunc returns a description of the cloud identity in use,
// failing when the credentials are not valid.
type IdentityFunc func(ctx context.Context) (string, error)

// Launcher runs the launch workflow for one configuration.
type Launcher struct {
	config      *config.Config
	templates   TemplateLoader
	deployer    stack.Deployer
	identity    IdentityFunc
	observer    provisioning.Observer
	timeouts    *config.Timeouts
	sessionOpts []provisioning.SessionOption
	now         func() time.Time
	runID       string
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithDeployer sets the stack deployer used by the stack phase.
func WithDeployer(d stack.Deployer) Option {
	return func(l *Launcher) {
		l.deployer = d
	}
}

// WithIdentity sets the credential check of the credentials phase.
// Without one the phase is skipped.
func WithIdentity(fn IdentityFunc) Option {
	return func(l *Launcher) {
		l.identity = fn
	}
}

// WithObserver sets the observer. Defaults to a ConsoleObserver.
func WithObserver(o provisioning.Observer) Option {
	return func(l *Launcher) {
		if o != nil {
			l.observer = o
		}
	}
}

// WithTimeouts sets wait timeouts. Defaults to config.LoadTimeouts().
func WithTimeouts(t *config.Timeouts) Option {
	return func(l *Launcher) {
		if t != nil {
			l.timeouts = t
		}
	}
}

// WithSessionOptions passes options to the SingleStore session.
func WithSessionOptions(opts ...provisioning.SessionOption) Option {
	return func(l *Launcher) {
		l.sessionOpts = append(l.sessionOpts, opts...)
	}
}

// WithNow replaces the wall clock used for lab names and expiry.
func WithNow(now func() time.Time) Option {
	return func(l *Launcher) {
		if now != nil {
			l.now = now
		}
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(l *Launcher) {
		if id != "" {
			l.runID = id
		}
	}
}

// NewLauncher creates a launcher for cfg.
func NewLauncher(cfg *config.Config, templates TemplateLoader, opts ...Option) *Launcher {
	l := &Launcher{
		config:    cfg,
		templates: templates,
		observer:  provisioning.NewConsoleObserver(),
		now:       time.Now,
		runID:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.timeouts == nil {
		l.timeouts = config.LoadTimeouts()
	}
	return l
}

// RunID identifies the launch in logs and stack tags.
func (l *Launcher) RunID() string {
	return l.runID
}

// Launch provisions the database and deploys the stack.
// The returned state holds whatever was completed, also on failure.
func (l *Launcher) Launch(ctx context.Context) (*provisioning.State, error) {
	if l.deployer == nil {
		return nil, errors.New("launch requires a stack deployer")
	}
	return l.run(ctx,
		&credentialsPhase{identity: l.identity},
		&templatePhase{templates: l.templates, now: l.now, handoff: true},
		&databasePhase{opts: l.sessionOpts, now: l.now},
		&stackPhase{deployer: l.deployer},
	)
}

// ProvisionDatabase provisions the workspace group and workspaces the
// template asks for without deploying the stack.
func (l *Launcher) ProvisionDatabase(ctx context.Context) (*provisioning.State, error) {
	return l.run(ctx,
		&templatePhase{templates: l.templates, now: l.now},
		&databasePhase{opts: l.sessionOpts, now: l.now},
	)
}

// LaunchPhases returns the phases run by Launch, in order.
func LaunchPhases() []string {
	return []string{PhaseCredentials, PhaseTemplate, PhaseDatabase, PhaseStack}
}

// DatabasePhases returns the phases run by ProvisionDatabase, in order.
func DatabasePhases() []string {
	return []string{PhaseTemplate, PhaseDatabase}
}

func (l *Launcher) run(ctx context.Context, phases ...provisioning.Phase) (*provisioning.State, error) {
	pCtx := &provisioning.Context{
		Context:  ctx,
		Config:   l.config,
		State:    provisioning.NewState(),
		Observer: l.observer.WithFields(map[string]string{"run": l.runID}),
		Timeouts: l.timeouts,
		RunID:    l.runID,
	}

	err := provisioning.RunPhases(pCtx, phases)
	return pCtx.State, err
}
