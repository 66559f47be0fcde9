// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/demolab/internal/orchestration"
	"github.com/imamik/demolab/internal/provisioning"
)

// Launch provisions a complete demo lab.
//
// This function orchestrates the complete launch workflow:
//  1. Loads and validates the lab configuration
//  2. Verifies cloud credentials
//  3. Fetches the stack template and derives the workspaces to create
//  4. Creates (or adopts) the workspace group and workspaces
//  5. Deploys the stack with the connection details as a parameter
//
// Whatever was created before a failure is left in place and reported, so a
// rerun with the same lab name continues where the last one stopped.
func Launch(ctx context.Context, opts *Options) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}

	c, err := newCloud(ctx, cfg)
	if err != nil {
		return err
	}

	state, err := execute(ctx, opts, cfg.Name, orchestration.LaunchPhases(),
		func(ctx context.Context, observer provisioning.Observer) (*provisioning.State, error) {
			launcher := orchestration.NewLauncher(cfg, c.fetcher,
				orchestration.WithDeployer(c.deployer),
				orchestration.WithIdentity(c.identity),
				orchestration.WithObserver(observer),
			)
			return launcher.Launch(ctx)
		})
	printState(state)
	if err != nil {
		return fmt.Errorf("launch failed: %w", err)
	}
	return nil
}

// Database provisions the workspace group and workspaces of a lab without
// deploying its stack.
func Database(ctx context.Context, opts *Options) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}

	c, err := newCloud(ctx, cfg)
	if err != nil {
		return err
	}

	state, err := execute(ctx, opts, cfg.Name, orchestration.DatabasePhases(),
		func(ctx context.Context, observer provisioning.Observer) (*provisioning.State, error) {
			launcher := orchestration.NewLauncher(cfg, c.fetcher, orchestration.WithObserver(observer))
			return launcher.ProvisionDatabase(ctx)
		})
	printState(state)
	if err != nil {
		return fmt.Errorf("database provisioning failed: %w", err)
	}
	return nil
}

type launchFunc func(ctx context.Context, observer provisioning.Observer) (*provisioning.State, error)

// execute runs fn with the observer matching the output: the progress TUI
// on an interactive terminal with text logs, the log observer otherwise.
func execute(ctx context.Context, opts *Options, title string, phases []string, fn launchFunc) (*provisioning.State, error) {
	if opts.LogFormat == LogFormatJSON || !isInteractive() {
		return fn(ctx, newObserver(opts))
	}

	if title == "" {
		title = "new lab"
	}
	var state *provisioning.State
	err := runTUI(ctx, title, phases, func(ctx context.Context, observer provisioning.Observer) error {
		var err error
		state, err = fn(ctx, observer)
		return err
	})
	return state, err
}

func printState(state *provisioning.State) {
	if state == nil || state.Name == "" {
		return
	}
	fmt.Fprint(stdout, renderLaunchSummary(state, isInteractive()))
}
