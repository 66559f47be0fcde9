package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/demolab/internal/platform/singlestore"
)

// Regions lists the regions workspace groups can be created in.
func Regions(ctx context.Context, opts *Options) error {
	cfg, err := loadOptionalConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}

	client := singlestore.NewClient(cfg.SingleStore.APIKey, clientOptions(cfg)...)
	regions, err := client.ListRegions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list regions: %w", err)
	}

	fmt.Fprint(stdout, renderRegions(regions, isInteractive()))
	return nil
}
