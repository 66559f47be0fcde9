package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/demolab/cmd/demolab/handlers"
)

// Launch returns the launch command.
//
// The launch command creates the workspace group, its workspaces and the
// infrastructure stack of a demo lab in one run.
func Launch(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "launch",
		Short: "Launch a demo lab: database and infrastructure stack",
		Long: `Launch provisions a complete demo lab.

The template is fetched first and its WorkspaceDetails parameter decides
which workspaces are created (unless singlestore.workspaces is set).
Once every workspace is ACTIVE, their connection details are passed to the
stack as a single JSON parameter (SingleStoreConnDetails by default).

Secrets are read from the environment:
  SINGLESTORE_API_KEY         Management API key (required)
  SINGLESTORE_ADMIN_PASSWORD  Admin password of the workspace group

Rerunning with the same lab name adopts what already exists.

Example:
  demolab launch -c demolab.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Launch(cmd.Context(), opts)
		},
	}
}

// Database returns the database command.
func Database(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "database",
		Short: "Provision only the workspace group and workspaces of a lab",
		Long: `Database creates the workspace group and workspaces of a lab without
deploying its infrastructure stack. Connection details can be read later
with "demolab details".

Example:
  demolab database -c demolab.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Database(cmd.Context(), opts)
		},
	}
}
