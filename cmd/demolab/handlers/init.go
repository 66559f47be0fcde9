package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/demolab/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive configuration wizard.
	runWizard = config.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = config.Save
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Fprintf(stdout, "Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return err
	}

	cfg := result.ToConfig()
	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "demolab - SingleStore demo environments")
	fmt.Fprintln(stdout, "=======================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard creates a lab configuration.")
	fmt.Fprintln(stdout, "Workspaces are taken from the template unless you list them in the file.")
	fmt.Fprintln(stdout)
}

func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Lab Summary")
	fmt.Fprintln(stdout, "-----------")
	fmt.Fprintf(stdout, "  Owner:          %s\n", cfg.OwnerEmail)
	if cfg.Template.URL != "" {
		fmt.Fprintf(stdout, "  Template:       %s\n", cfg.Template.URL)
	} else {
		fmt.Fprintf(stdout, "  Template:       %s (from %s)\n", cfg.Template.Name, cfg.Template.Catalog)
	}
	fmt.Fprintf(stdout, "  Region:         %s\n", cfg.SingleStore.Region)
	fmt.Fprintf(stdout, "  Stack:          %s\n", cfg.Stack.Provider)
	fmt.Fprintf(stdout, "  Lifetime:       %dh\n", cfg.TTLHours)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	fmt.Fprintln(stdout, "  1. Set your SingleStore API key and admin password:")
	fmt.Fprintf(stdout, "     export %s=<your-key>\n", config.EnvSingleStoreAPIKey)
	fmt.Fprintf(stdout, "     export %s=<password>\n", config.EnvAdminPassword)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  2. Check your credentials:")
	fmt.Fprintln(stdout, "     demolab credentials")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  3. Launch the lab:")
	fmt.Fprintln(stdout, "     demolab launch")
	fmt.Fprintln(stdout)
}
