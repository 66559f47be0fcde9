package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/demolab/internal/config"
	"github.com/imamik/demolab/internal/provisioning"
)

// Details prints the connection details of an existing lab.
//
// With jsonOutput the exact JSON handed to the stack is printed, which can
// be used to deploy a stack by hand.
func Details(ctx context.Context, opts *Options, name string, jsonOutput bool) error {
	cfg, err := loadOptionalConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}
	if name == "" {
		name = cfg.Name
	}
	if name == "" {
		return fmt.Errorf("lab name is required (use --name or set name in %s)", config.DefaultConfigFilename)
	}
	if cfg.SingleStore.AdminPassword == "" {
		fmt.Fprintf(stderr, "Warning: %s is not set, connection details will carry an empty password\n", config.EnvAdminPassword)
	}

	session, err := provisioning.NewSession(cfg.SingleStore.APIKey, nil,
		provisioning.WithClientOptions(clientOptions(cfg)...),
		provisioning.WithObserver(newObserver(opts)),
		provisioning.WithAdminCredentials(cfg.SingleStore.AdminUsername, cfg.SingleStore.AdminPassword),
	)
	if err != nil {
		return err
	}

	groupID, found, err := session.Client().FindGroupByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up workspace group %s: %w", name, err)
	}
	if !found {
		return fmt.Errorf("no workspace group named %s", name)
	}

	orch := session.Orchestrator()
	orch.AdoptGroup(groupID)
	details, err := orch.WorkspaceDetails(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		out, err := details.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, out)
		return nil
	}

	r := newRenderer(isInteractive())
	r.title("demolab: " + name)
	r.section("Database")
	r.field("workspace group", groupID)
	renderDetails(r, details)
	fmt.Fprint(stdout, r.String())
	return nil
}
