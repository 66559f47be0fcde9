package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/demolab/cmd/demolab/handlers"
)

// Regions returns the regions command.
func Regions(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List SingleStore regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Regions(cmd.Context(), opts)
		},
	}
}

// Templates returns the templates command.
func Templates(opts *handlers.Options) *cobra.Command {
	var catalog string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the templates of a catalog",
		Long: `Templates lists the named templates of a catalog file. The catalog
can be an https:// URL, an s3://bucket/key object or a local path.

Example:
  demolab templates --catalog https://example.com/stacks.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Templates(cmd.Context(), opts, catalog)
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "Catalog location (default: template.catalog from the config file)")

	return cmd
}

// Credentials returns the credentials command.
func Credentials(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "credentials",
		Short: "Check SingleStore and cloud credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Credentials(cmd.Context(), opts)
		},
	}
}
