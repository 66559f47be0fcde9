package config

import (
	"fmt"
	"net"
	"net/mail"
	"strings"
)

// ValidationError reports an invalid configuration or request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks the configuration for common errors.
// Secrets are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.OwnerEmail != "" {
		if _, err := mail.ParseAddress(c.OwnerEmail); err != nil {
			return invalid("owner_email", "invalid address %q", c.OwnerEmail)
		}
	}
	if c.Name == "" && c.OwnerEmail == "" {
		return invalid("owner_email", "required when name is not set")
	}

	if c.TTLHours < 0 || c.TTLHours > MaxTTLHours {
		return invalid("ttl_hours", "must be between 1 and %d, got %d", MaxTTLHours, c.TTLHours)
	}

	if c.Template.URL == "" && c.Template.Name == "" {
		return invalid("template", "either url or name is required")
	}
	if c.Template.URL == "" && c.Template.Catalog == "" {
		return invalid("template.catalog", "required to look up template %q", c.Template.Name)
	}

	if err := c.SingleStore.validate(); err != nil {
		return err
	}
	return c.Stack.validate()
}

func (s *SingleStoreConfig) validate() error {
	if strings.TrimSpace(s.Region) == "" {
		return invalid("singlestore.region", "required")
	}

	for i, cidr := range s.FirewallRanges {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return invalid(fmt.Sprintf("singlestore.firewall_ranges[%d]", i), "invalid CIDR %q", cidr)
		}
	}

	if err := ValidateUpdateWindow(derefInt(s.UpdateWindow.Day), derefInt(s.UpdateWindow.Hour)); err != nil {
		return err
	}

	return ValidateWorkspaces(s.Workspaces)
}

func (s *StackConfig) validate() error {
	switch s.Provider {
	case ProviderAWS:
		if s.AWS.HasStaticCredentials() && (s.AWS.AccessKeyID == "" || s.AWS.SecretAccessKey == "") {
			return invalid("stack.aws", "access_key_id and secret_access_key must be set together")
		}
	case ProviderAzure:
		if s.Azure.SubscriptionID == "" {
			return invalid("stack.azure.subscription_id", "required for provider %q (or set %s)", ProviderAzure, EnvAzureSubscription)
		}
		if s.Azure.Location == "" {
			return invalid("stack.azure.location", "required for provider %q", ProviderAzure)
		}
	default:
		return invalid("stack.provider", "must be %q or %q, got %q", ProviderAWS, ProviderAzure, s.Provider)
	}

	if _, ok := s.Parameters[s.ParameterName]; ok {
		return invalid("stack.parameters", "%q is set from the database connection details", s.ParameterName)
	}
	return nil
}

// ValidateWorkspaces checks names are present and unique and sizes are known.
// An empty size is allowed and defaults to DefaultWorkspaceSize.
func ValidateWorkspaces(workspaces []WorkspaceConfig) error {
	seen := make(map[string]bool, len(workspaces))
	for i, ws := range workspaces {
		field := fmt.Sprintf("workspaces[%d]", i)
		if ws.Name == "" {
			return invalid(field+".name", "required")
		}
		if seen[ws.Name] {
			return invalid(field+".name", "duplicate workspace name %q", ws.Name)
		}
		seen[ws.Name] = true

		if ws.Size != "" && !ValidWorkspaceSizes[ws.Size] {
			return invalid(field+".size", "invalid size %q: must be one of %v", ws.Size, WorkspaceSizes())
		}
	}
	return nil
}

// ValidateUpdateWindow checks the maintenance window is a valid weekday and hour.
func ValidateUpdateWindow(day, hour int) error {
	if day < 0 || day > 6 {
		return invalid("update_window.day", "must be between 0 and 6, got %d", day)
	}
	if hour < 0 || hour > 23 {
		return invalid("update_window.hour", "must be between 0 and 23, got %d", hour)
	}
	return nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
