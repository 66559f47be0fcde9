package handlers

import (
	"context"
	"errors"
	"fmt"
)

// Templates lists the templates of a catalog. catalog overrides the
// catalog named in the configuration.
func Templates(ctx context.Context, opts *Options, catalog string) error {
	cfg, err := loadOptionalConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if catalog == "" {
		catalog = cfg.Template.Catalog
	}
	if catalog == "" {
		return errors.New("no catalog configured (use --catalog or set template.catalog)")
	}

	c, err := newCloud(ctx, cfg)
	if err != nil {
		return err
	}

	entries, err := c.fetcher.LoadCatalog(ctx, catalog)
	if err != nil {
		return fmt.Errorf("failed to load catalog %s: %w", catalog, err)
	}

	fmt.Fprint(stdout, renderCatalog(entries, isInteractive()))
	return nil
}
