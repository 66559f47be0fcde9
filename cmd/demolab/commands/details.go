package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/demolab/cmd/demolab/handlers"
)

// Details returns the details command.
func Details(opts *handlers.Options) *cobra.Command {
	var (
		name       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "details",
		Short: "Show connection details of an existing lab",
		Long: `Details prints the endpoint and MongoDB connection string of every
workspace in a lab's workspace group.

With --json the exact value passed to the stack parameter is printed.

Examples:
  demolab details --name janeroe-kafka-1792324800
  demolab details -c demolab.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Details(cmd.Context(), opts, name, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Lab name (default: name from the config file)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the connection details as JSON")

	return cmd
}
