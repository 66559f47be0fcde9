// Package orchestration provides high-level workflow coordination for lab launches.
//
// This package orchestrates a launch by running provisioning phases in
// order and passing their results along in provisioning.State. It defines
// the execution order; the actual work is delegated to the SingleStore
// orchestrator and the stack deployer.
//
// # Workflow
//
// The Launcher executes the following phases in order:
//  1. Credentials - Verify cloud credentials (AWS caller identity)
//  2. Template - Fetch the stack template, derive workspaces, TTL and lab name
//  3. Database - Workspace group, workspaces and their connection details
//  4. Stack - Deploy the template with the connection details parameter
//
// # Usage
//
//	launcher := orchestration.NewLauncher(cfg, fetcher,
//	    orchestration.WithDeployer(deployer),
//	    orchestration.WithIdentity(identity),
//	)
//	state, err := launcher.Launch(ctx)
//
// Launches are idempotent for a fixed lab name: an existing group,
// workspaces and stack are adopted instead of created again.
package orchestration
