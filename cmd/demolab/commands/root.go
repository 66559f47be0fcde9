// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imamik/demolab/cmd/demolab/handlers"
	"github.com/imamik/demolab/internal/metrics"
)

// Root returns the root command for the demolab CLI.
//
// The root command owns the global flags. Before any subcommand runs it
// applies --deadline to the command context and starts the metrics
// endpoint when --metrics-addr is set.
func Root() *cobra.Command {
	opts := &handlers.Options{}
	var cancel context.CancelFunc

	cmd := &cobra.Command{
		Use:           "demolab",
		Short:         "Launch SingleStore demo environments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if opts.Deadline > 0 {
				ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
			} else {
				ctx, cancel = context.WithCancel(ctx)
			}
			cmd.SetContext(ctx)

			if opts.MetricsAddr != "" {
				go func() {
					if err := metrics.Serve(ctx, opts.MetricsAddr); err != nil {
						fmt.Fprintf(os.Stderr, "metrics endpoint stopped: %v\n", err)
					}
				}()
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if cancel != nil {
				cancel()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to lab configuration file (default: ./demolab.yaml)")
	flags.StringVar(&opts.LogFormat, "log-format", handlers.LogFormatText, "Log format: text or json")
	flags.CountVarP(&opts.Verbosity, "verbose", "v", "Increase log verbosity (json logs only)")
	flags.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	flags.DurationVar(&opts.Deadline, "deadline", 0, "Abort the command after this duration (0 means no deadline)")

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Launch(opts))
	cmd.AddCommand(Database(opts))
	cmd.AddCommand(Details(opts))

	// Discovery and utility commands
	cmd.AddCommand(Regions(opts))
	cmd.AddCommand(Templates(opts))
	cmd.AddCommand(Credentials(opts))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
