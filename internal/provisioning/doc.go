// Package provisioning creates the SingleStore side of a demo lab.
//
// # Core Types
//
// Request is the validated description of a workspace group and its
// workspaces. Session carries everything a run needs (API client, request,
// poll policy, observer, run ID) so no state lives in package variables.
// Orchestrator finds or creates the workspace group, then each workspace in
// order, waiting for every resource to become ACTIVE before moving on, and
// finally collects the connection details handed to the infrastructure stack.
//
// Phase and RunPhases sequence the steps of a launch; Context carries the
// results of earlier phases to later ones.
//
// Resources are matched by name before anything is created, so a rerun with
// the same request adopts what the previous run left behind. Nothing is ever
// deleted: a failed batch stays in place.
package provisioning
