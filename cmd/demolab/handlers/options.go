package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/imamik/demolab/internal/config"
	"github.com/imamik/demolab/internal/orchestration"
	"github.com/imamik/demolab/internal/platform/awsconfig"
	"github.com/imamik/demolab/internal/platform/azure"
	"github.com/imamik/demolab/internal/platform/cloudformation"
	"github.com/imamik/demolab/internal/platform/s3"
	"github.com/imamik/demolab/internal/platform/singlestore"
	"github.com/imamik/demolab/internal/platform/sts"
	"github.com/imamik/demolab/internal/provisioning"
	"github.com/imamik/demolab/internal/stack"
	"github.com/imamik/demolab/internal/ui/tui"
	"github.com/imamik/demolab/internal/util/retry"
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Options are the global flags shared by all commands.
type Options struct {
	ConfigPath  string
	LogFormat   string
	Verbosity   int
	MetricsAddr string
	Deadline    time.Duration
}

// Validate checks flag values.
func (o *Options) Validate() error {
	switch o.LogFormat {
	case "", LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid --log-format %q (expected %s or %s)", o.LogFormat, LogFormatText, LogFormatJSON)
	}
	if o.Deadline < 0 {
		return errors.New("--deadline must not be negative")
	}
	return nil
}

// cloud bundles the provider-specific clients of one run.
type cloud struct {
	fetcher  orchestration.TemplateLoader
	deployer stack.Deployer
	identity orchestration.IdentityFunc
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// stdout receives command results.
	stdout io.Writer = os.Stdout

	// stderr receives JSON logs.
	stderr io.Writer = os.Stderr

	// findConfigFile locates the config file (for testing injection).
	findConfigFile = config.FindConfigFile

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.Load

	// newCloud creates the stack provider clients.
	newCloud = setupCloud

	// isInteractive reports whether output goes to a terminal.
	isInteractive = isInteractiveTTY

	// runTUI renders launch progress on an interactive terminal.
	runTUI = tui.RunLaunch
)

// loadConfig finds, loads and validates the configuration file.
func loadConfig(configPath string) (*config.Config, error) {
	path, err := findConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, nil
}

// loadOptionalConfig is loadConfig for commands that can run from the
// environment alone. Without a config file only defaults and secrets from
// the environment are used.
func loadOptionalConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		if _, err := findConfigFile(""); err != nil {
			cfg := &config.Config{}
			cfg.ApplyDefaults()
			cfg.ApplyEnv()
			return cfg, nil
		}
	}
	return loadConfig(configPath)
}

func newObserver(opts *Options) provisioning.Observer {
	if opts.LogFormat == LogFormatJSON {
		return provisioning.NewJSONObserver(stderr, opts.Verbosity)
	}
	return provisioning.NewConsoleObserver()
}

func clientOptions(cfg *config.Config) []singlestore.ClientOption {
	if cfg.SingleStore.APIURL == "" {
		return nil
	}
	return []singlestore.ClientOption{singlestore.WithBaseURL(cfg.SingleStore.APIURL)}
}

func requireAPIKey(cfg *config.Config) error {
	if cfg.SingleStore.APIKey == "" {
		return fmt.Errorf("%s is not set", config.EnvSingleStoreAPIKey)
	}
	return nil
}

// setupCloud builds the template fetcher, stack deployer and credential
// check for the configured provider.
func setupCloud(ctx context.Context, cfg *config.Config) (*cloud, error) {
	timeouts := config.LoadTimeouts()
	fetchOpts := []stack.FetcherOption{
		stack.WithRetry(
			retry.WithMaxAttempts(timeouts.RetryMaxAttempts),
			retry.WithInitialDelay(timeouts.RetryInitialDelay),
		),
	}

	switch cfg.Stack.Provider {
	case config.ProviderAzure:
		deployer, err := azure.NewFromEnvironment(cfg.Stack.Azure.SubscriptionID, cfg.Stack.Azure.Location, timeouts.Stack)
		if err != nil {
			return nil, err
		}
		return &cloud{
			fetcher:  stack.NewFetcher(fetchOpts...),
			deployer: deployer,
		}, nil

	default:
		awsCfg, err := awsconfig.Load(ctx, cfg.Stack.AWS)
		if err != nil {
			return nil, err
		}
		fetchOpts = append(fetchOpts, stack.WithObjectFetcher(s3.NewClient(awsCfg)))
		return &cloud{
			fetcher:  stack.NewFetcher(fetchOpts...),
			deployer: cloudformation.NewFromConfig(awsCfg, cloudformation.WithMaxWait(timeouts.Stack)),
			identity: awsIdentity(awsCfg),
		}, nil
	}
}

func awsIdentity(cfg aws.Config) orchestration.IdentityFunc {
	client := sts.NewFromConfig(cfg)
	return func(ctx context.Context) (string, error) {
		id, err := client.CallerIdentity(ctx)
		if err != nil {
			return "", err
		}
		return id.ARN, nil
	}
}
