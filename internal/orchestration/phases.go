package orchestration

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/imamik/demolab/internal/config"
	"github.com/imamik/demolab/internal/platform/singlestore"
	"github.com/imamik/demolab/internal/provisioning"
	"github.com/imamik/demolab/internal/stack"
	"github.com/imamik/demolab/internal/util/labels"
	"github.com/imamik/demolab/internal/util/naming"
)

// Phase names, in the order a launch runs them.
const (
	PhaseCredentials = "credentials"
	PhaseTemplate    = "template"
	PhaseDatabase    = "database"
	PhaseStack       = "stack"
)

// credentialsPhase fails fast when the cloud credentials are not usable,
// before anything is created.
type credentialsPhase struct {
	identity IdentityFunc
}

func (p *credentialsPhase) Name() string { return PhaseCredentials }

func (p *credentialsPhase) Provision(ctx *provisioning.Context) error {
	if p.identity == nil {
		ctx.Observer.Printf("[%s] No credential check configured for provider %s, skipping", PhaseCredentials, ctx.Config.Stack.Provider)
		return nil
	}

	id, err := p.identity(ctx)
	if err != nil {
		return fmt.Errorf("invalid cloud credentials: %w", err)
	}
	ctx.State.CallerIdentity = id
	ctx.Observer.Printf("[%s] Authenticated as %s", PhaseCredentials, id)
	return nil
}

// templatePhase loads the template and decides what the lab looks like:
// its name, workspaces and lifetime.
type templatePhase struct {
	templates TemplateLoader
	now       func() time.Time

	// handoff requires the template to accept the connection details.
	handoff bool
}

func (p *templatePhase) Name() string { return PhaseTemplate }

func (p *templatePhase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	state := ctx.State

	name, source, err := ResolveTemplate(ctx, p.templates, cfg.Template)
	if err != nil {
		return err
	}

	tmpl, err := p.templates.LoadTemplate(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to load template %q: %w", name, err)
	}
	if p.handoff && !tmpl.Has(cfg.Stack.ParameterName) {
		return fmt.Errorf("template %q does not declare the %s parameter", name, cfg.Stack.ParameterName)
	}

	workspaces := cfg.SingleStore.Workspaces
	if len(workspaces) == 0 {
		if workspaces, err = tmpl.WorkspaceSpecs(); err != nil {
			return fmt.Errorf("template %q: %w", name, err)
		}
	} else {
		ctx.Observer.Printf("[%s] Using %d workspace(s) from configuration instead of the template", PhaseTemplate, len(workspaces))
	}

	ttl := cfg.TTLHours
	if ttl == 0 {
		ttl = config.DefaultTTLHours
		if hours, ok := tmpl.DefaultTTL(); ok {
			ttl = hours
		}
	}
	if ttl > config.MaxTTLHours {
		ctx.Observer.Printf("[%s] Template TTL of %dh exceeds the maximum, using %dh", PhaseTemplate, ttl, config.MaxTTLHours)
		ttl = config.MaxTTLHours
	}

	lab := cfg.Name
	if lab == "" {
		lab = naming.LabName(cfg.OwnerEmail, name, p.now())
	}

	state.Name = lab
	state.TemplateName = name
	state.Template = tmpl
	state.Workspaces = workspaces
	state.TTLHours = ttl

	ctx.Observer.Printf("[%s] Lab %s from template %q (%s): %d workspace(s), TTL %dh",
		PhaseTemplate, lab, name, tmpl.Format, len(workspaces), ttl)
	return nil
}

// ResolveTemplate returns the display name and location of the configured
// template, looking the name up in the catalog when no URL is given.
func ResolveTemplate(ctx context.Context, templates TemplateLoader, tc config.TemplateConfig) (name, source string, err error) {
	if tc.URL != "" {
		name = tc.Name
		if name == "" {
			name = TemplateNameFromSource(tc.URL)
		}
		return name, tc.URL, nil
	}

	catalog, err := templates.LoadCatalog(ctx, tc.Catalog)
	if err != nil {
		return "", "", err
	}
	entry, err := catalog.Lookup(tc.Name)
	if err != nil {
		return "", "", err
	}
	return entry.Name, entry.URL, nil
}

// TemplateNameFromSource derives a template name from its file name,
// e.g. https://example.com/stacks/kafka-demo.yaml → kafka-demo.
func TemplateNameFromSource(source string) string {
	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// databasePhase provisions the workspace group and workspaces and collects
// their connection details.
type databasePhase struct {
	opts []provisioning.SessionOption
	now  func() time.Time
}

func (p *databasePhase) Name() string { return PhaseDatabase }

func (p *databasePhase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	state := ctx.State

	ttl := time.Duration(state.TTLHours) * time.Hour
	req, err := provisioning.RequestFromConfig(cfg, naming.WorkspaceGroup(state.Name), state.Workspaces, ttl, p.now())
	if err != nil {
		return err
	}

	var opts []provisioning.SessionOption
	if cfg.SingleStore.APIURL != "" {
		opts = append(opts, provisioning.WithClientOptions(singlestore.WithBaseURL(cfg.SingleStore.APIURL)))
	}
	opts = append(opts,
		provisioning.WithObserver(ctx.Observer),
		provisioning.WithTimeouts(ctx.Timeouts),
		provisioning.WithRunID(ctx.RunID),
	)
	opts = append(opts, p.opts...)

	session, err := provisioning.NewSession(cfg.SingleStore.APIKey, req, opts...)
	if err != nil {
		return err
	}
	orch := session.Orchestrator()

	if state.GroupID, err = orch.EnsureGroup(ctx); err != nil {
		return err
	}
	if state.Created, err = orch.EnsureWorkspaces(ctx); err != nil {
		return err
	}
	if state.Details, err = orch.WorkspaceDetails(ctx); err != nil {
		return err
	}

	ctx.Observer.Printf("[%s] Connection details ready for %s", PhaseDatabase, strings.Join(state.Details.Names(), ", "))
	return nil
}

// stackPhase hands the connection details to the infrastructure stack.
type stackPhase struct {
	deployer stack.Deployer
}

func (p *stackPhase) Name() string { return PhaseStack }

func (p *stackPhase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	state := ctx.State

	if state.Template == nil || state.Details == nil {
		return &provisioning.PreconditionError{Operation: "stack deployment", Requirement: "a loaded template and connection details"}
	}

	param := cfg.Stack.ParameterName
	details, err := state.Details.JSON()
	if err != nil {
		return err
	}

	params := make(map[string]string, len(cfg.Stack.Parameters)+2)
	maps.Copy(params, cfg.Stack.Parameters)
	if _, set := params[stack.ParamTTL]; !set && state.Template.Has(stack.ParamTTL) {
		params[stack.ParamTTL] = strconv.Itoa(state.TTLHours)
	}
	params[param] = details

	tags := labels.NewTagBuilder(ctx.RunID).
		WithOwner(cfg.OwnerEmail).
		WithTemplate(state.TemplateName).
		Build()

	name := naming.Stack(state.Name)
	provisioning.LogResourceCreating(ctx.Observer, PhaseStack, PhaseStack, name)

	res, err := p.deployer.Deploy(ctx, stack.Request{
		Name:         name,
		TemplateBody: state.Template.Body,
		Parameters:   params,
		Tags:         tags,
	})
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, PhaseStack, PhaseStack, name, err)
		return fmt.Errorf("failed to deploy stack %s: %w", name, err)
	}

	if res.Existing {
		provisioning.LogResourceExists(ctx.Observer, PhaseStack, PhaseStack, name, res.StackID)
	} else {
		provisioning.LogResourceCreated(ctx.Observer, PhaseStack, PhaseStack, name, res.StackID)
	}
	state.Stack = res
	return nil
}
