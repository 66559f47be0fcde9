package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/demolab/cmd/demolab/handlers"
	"github.com/imamik/demolab/internal/config"
)

// Init returns the init command.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a lab configuration interactively",
		Long: `Init asks a few questions and writes a lab configuration file.

Secrets are never written to the file. Set SINGLESTORE_API_KEY and
SINGLESTORE_ADMIN_PASSWORD in the environment before launching.

Example:
  demolab init -o demolab.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")

	return cmd
}
