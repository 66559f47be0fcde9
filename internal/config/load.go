package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads, completes and validates the configuration file.
func Load(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromBytes parses, completes and validates configuration data.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.ApplyDefaults()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills empty fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.SingleStore.Region == "" {
		c.SingleStore.Region = DefaultRegion
	}
	if c.SingleStore.AdminUsername == "" {
		c.SingleStore.AdminUsername = DefaultAdminUsername
	}
	if c.SingleStore.UpdateWindow.Day == nil {
		day := DefaultUpdateWindowDay
		c.SingleStore.UpdateWindow.Day = &day
	}
	if c.SingleStore.UpdateWindow.Hour == nil {
		hour := DefaultUpdateWindowHour
		c.SingleStore.UpdateWindow.Hour = &hour
	}
	if c.Stack.Provider == "" {
		c.Stack.Provider = DefaultStackProvider
	}
	if c.Stack.ParameterName == "" {
		c.Stack.ParameterName = DefaultStackParameter
	}
	if c.Stack.Provider == ProviderAWS && c.Stack.AWS.Region == "" {
		c.Stack.AWS.Region = DefaultAWSRegion
	}
}

// ApplyEnv reads secrets from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSingleStoreAPIKey); v != "" {
		c.SingleStore.APIKey = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		c.SingleStore.AdminPassword = v
	}
	if v := os.Getenv(EnvAzureSubscription); v != "" && c.Stack.Azure.SubscriptionID == "" {
		c.Stack.Azure.SubscriptionID = v
	}
}

// FindConfigFile returns path when set, otherwise demolab.yaml in the
// current directory if it exists.
func FindConfigFile(path string) (string, error) {
	if path != "" {
		return path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	candidate := filepath.Join(cwd, DefaultConfigFilename)
	if _, err := os.Stat(candidate); err != nil {
		return "", fmt.Errorf("no %s found in %s (use --config to point at one)", DefaultConfigFilename, cwd)
	}
	return candidate, nil
}
