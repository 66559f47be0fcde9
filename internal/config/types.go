package config

// Config holds the configuration of a demo launch.
type Config struct {
	// Name is the lab name used as the workspace group and stack name.
	// Generated from the owner email and template name when empty.
	Name string `yaml:"name,omitempty"`

	// OwnerEmail tags the stack and seeds the generated lab name.
	OwnerEmail string `yaml:"owner_email"`

	// TTLHours is the lifetime of the workspace group (1-12).
	// Falls back to the template's TTL parameter, then to 1.
	TTLHours int `yaml:"ttl_hours,omitempty"`

	Template    TemplateConfig    `yaml:"template"`
	SingleStore SingleStoreConfig `yaml:"singlestore"`
	Stack       StackConfig       `yaml:"stack"`
}

// TemplateConfig selects the stack template.
// Either URL is set directly, or Name is looked up in Catalog.
type TemplateConfig struct {
	Name    string `yaml:"name,omitempty"`
	URL     string `yaml:"url,omitempty"`     // https://, s3://bucket/key or a local path
	Catalog string `yaml:"catalog,omitempty"` // stacks.yaml listing name/url pairs
}

// SingleStoreConfig configures the workspace group and its workspaces.
type SingleStoreConfig struct {
	APIURL          string             `yaml:"api_url,omitempty"`
	Region          string             `yaml:"region,omitempty"`
	AdminUsername   string             `yaml:"admin_username,omitempty"`
	AllowAllTraffic bool               `yaml:"allow_all_traffic,omitempty"`
	FirewallRanges  []string           `yaml:"firewall_ranges,omitempty"`
	UpdateWindow    UpdateWindowConfig `yaml:"update_window,omitempty"`

	// Workspaces overrides the workspace list declared by the template.
	Workspaces []WorkspaceConfig `yaml:"workspaces,omitempty"`

	APIKey        string `yaml:"-"` // SINGLESTORE_API_KEY
	AdminPassword string `yaml:"-"` // SINGLESTORE_ADMIN_PASSWORD
}

// UpdateWindowConfig is the weekly maintenance window.
type UpdateWindowConfig struct {
	Day  *int `yaml:"day,omitempty"`
	Hour *int `yaml:"hour,omitempty"`
}

// WorkspaceConfig describes one workspace.
type WorkspaceConfig struct {
	Name      string `yaml:"name" json:"name"`
	Size      string `yaml:"size,omitempty" json:"size,omitempty"`
	EnableKai bool   `yaml:"enable_kai,omitempty" json:"enableKai,omitempty"`
}

// StackConfig configures the infrastructure stack.
type StackConfig struct {
	Provider string `yaml:"provider,omitempty"` // aws or azure

	// ParameterName is the template parameter receiving the connection details JSON.
	ParameterName string `yaml:"parameter_name,omitempty"`

	// Parameters are passed through to the template unchanged (e.g. KeyName).
	Parameters map[string]string `yaml:"parameters,omitempty"`

	AWS   AWSConfig   `yaml:"aws,omitempty"`
	Azure AzureConfig `yaml:"azure,omitempty"`
}

// AWSConfig selects the AWS account and region.
// Without static keys, credentials come from the default chain
// (environment, shared profile, SSO).
type AWSConfig struct {
	Region  string `yaml:"region,omitempty"`
	Profile string `yaml:"profile,omitempty"`

	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	SessionToken    string `yaml:"session_token,omitempty"`
}

// HasStaticCredentials reports whether explicit keys are configured.
func (a AWSConfig) HasStaticCredentials() bool {
	return a.AccessKeyID != "" || a.SecretAccessKey != ""
}

// AzureConfig selects the Azure subscription and location.
type AzureConfig struct {
	SubscriptionID string `yaml:"subscription_id,omitempty"`
	Location       string `yaml:"location,omitempty"`
}
