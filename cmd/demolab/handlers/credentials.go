package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/demolab/internal/config"
	"github.com/imamik/demolab/internal/platform/singlestore"
	"github.com/imamik/demolab/internal/util/async"
)

// Credentials checks that the SingleStore API key and the cloud
// credentials of the configured provider work.
func Credentials(ctx context.Context, opts *Options) error {
	cfg, err := loadOptionalConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	r := newRenderer(isInteractive())
	r.title("demolab credentials")
	r.b.WriteString("\n")

	var storeErr, cloudErr error
	var identity string
	err = async.RunAll(ctx, []async.Task{
		{Name: "singlestore", Func: func(ctx context.Context) error {
			storeErr = checkSingleStore(ctx, cfg)
			return storeErr
		}},
		{Name: cfg.Stack.Provider, Func: func(ctx context.Context) error {
			identity, cloudErr = checkCloud(ctx, cfg)
			return cloudErr
		}},
	})

	if storeErr != nil {
		r.status("SingleStore", false, storeErr.Error())
	} else {
		r.status("SingleStore", true, "API key accepted")
	}

	switch {
	case cloudErr != nil:
		r.status(cfg.Stack.Provider, false, cloudErr.Error())
	case identity == "":
		r.status(cfg.Stack.Provider, true, "checked when the stack is deployed")
	default:
		r.status(cfg.Stack.Provider, true, identity)
	}

	fmt.Fprint(stdout, r.String())
	if err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}
	return nil
}

func checkSingleStore(ctx context.Context, cfg *config.Config) error {
	if err := requireAPIKey(cfg); err != nil {
		return err
	}
	client := singlestore.NewClient(cfg.SingleStore.APIKey, clientOptions(cfg)...)
	_, err := client.ListRegions(ctx)
	return err
}

func checkCloud(ctx context.Context, cfg *config.Config) (string, error) {
	c, err := newCloud(ctx, cfg)
	if err != nil {
		return "", err
	}
	if c.identity == nil {
		return "", nil
	}
	return c.identity(ctx)
}
