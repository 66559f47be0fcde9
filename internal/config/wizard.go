package config

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"
)

// WizardResult holds the answers of the configuration wizard.
type WizardResult struct {
	OwnerEmail string
	TTLHours   int

	// TemplateSource is either a catalog template name or a template URL,
	// depending on UseCatalog.
	UseCatalog     bool
	Catalog        string
	TemplateSource string

	Region   string
	Provider string

	AWSRegion           string
	AzureSubscriptionID string
	AzureLocation       string
}

// RunWizard asks for the settings of a new lab configuration.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		TTLHours:   DefaultTTLHours,
		UseCatalog: true,
		Region:     DefaultRegion,
		Provider:   DefaultStackProvider,
		AWSRegion:  DefaultAWSRegion,
	}

	form := huh.NewForm(
		// Owner
		huh.NewGroup(
			huh.NewInput().
				Title("Owner email").
				Description("Tags the stack and seeds the lab name").
				Placeholder("jane.roe@example.com").
				Value(&result.OwnerEmail).
				Validate(validateEmail),

			huh.NewSelect[int]().
				Title("Lifetime").
				Description("The workspace group expires after this many hours").
				Options(ttlOptions()...).
				Value(&result.TTLHours),
		),

		// Template
		huh.NewGroup(
			huh.NewConfirm().
				Title("Pick the template from a catalog?").
				Affirmative("Catalog").
				Negative("URL").
				Value(&result.UseCatalog),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Catalog").
				Description("https:// URL, s3://bucket/key or local path of stacks.yaml").
				Value(&result.Catalog).
				Validate(required("catalog")),
			huh.NewInput().
				Title("Template name").
				Placeholder("Kafka Pipeline Demo").
				Value(&result.TemplateSource).
				Validate(required("template name")),
		).WithHideFunc(func() bool { return !result.UseCatalog }),
		huh.NewGroup(
			huh.NewInput().
				Title("Template URL").
				Description("https:// URL, s3://bucket/key or local path").
				Value(&result.TemplateSource).
				Validate(required("template URL")),
		).WithHideFunc(func() bool { return result.UseCatalog }),

		// Database
		huh.NewGroup(
			huh.NewInput().
				Title("SingleStore region").
				Description("Run 'demolab regions' to list them").
				Value(&result.Region).
				Validate(required("region")),
		),

		// Stack
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Stack provider").
				Options(
					huh.NewOption("AWS CloudFormation", ProviderAWS),
					huh.NewOption("Azure Deployment Stack", ProviderAzure),
				).
				Value(&result.Provider),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("AWS region").
				Value(&result.AWSRegion).
				Validate(required("AWS region")),
		).WithHideFunc(func() bool { return result.Provider != ProviderAWS }),
		huh.NewGroup(
			huh.NewInput().
				Title("Azure subscription ID").
				Description("Leave empty to use " + EnvAzureSubscription).
				Value(&result.AzureSubscriptionID),
			huh.NewInput().
				Title("Azure location").
				Placeholder("eastus").
				Value(&result.AzureLocation).
				Validate(required("Azure location")),
		).WithHideFunc(func() bool { return result.Provider != ProviderAzure }),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToConfig converts the wizard answers to a configuration.
func (r *WizardResult) ToConfig() *Config {
	cfg := &Config{
		OwnerEmail: strings.TrimSpace(r.OwnerEmail),
		TTLHours:   r.TTLHours,
		SingleStore: SingleStoreConfig{
			Region: r.Region,
		},
		Stack: StackConfig{
			Provider: r.Provider,
		},
	}

	if r.UseCatalog {
		cfg.Template = TemplateConfig{Name: r.TemplateSource, Catalog: r.Catalog}
	} else {
		cfg.Template = TemplateConfig{URL: r.TemplateSource}
	}

	switch r.Provider {
	case ProviderAzure:
		cfg.Stack.Azure = AzureConfig{SubscriptionID: r.AzureSubscriptionID, Location: r.AzureLocation}
	default:
		cfg.Stack.AWS = AWSConfig{Region: r.AWSRegion}
	}
	return cfg
}

// Save writes cfg as YAML. Secrets are never written.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func ttlOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 0, MaxTTLHours)
	for h := 1; h <= MaxTTLHours; h++ {
		label := fmt.Sprintf("%d hours", h)
		if h == 1 {
			label = "1 hour"
		}
		opts = append(opts, huh.NewOption(label, h))
	}
	return opts
}

func validateEmail(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("owner email is required")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("invalid email address %q", s)
	}
	return nil
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
