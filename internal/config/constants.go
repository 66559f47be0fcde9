package config

// Defaults applied by Load when the corresponding field is empty.
const (
	DefaultConfigFilename   = "demolab.yaml"
	DefaultRegion           = "US East 1 (N. Virginia)"
	DefaultAdminUsername    = "admin"
	DefaultWorkspaceSize    = "S-00"
	DefaultStackProvider    = ProviderAWS
	DefaultAWSRegion        = "us-east-1"
	DefaultStackParameter   = "SingleStoreConnDetails"
	DefaultUpdateWindowDay  = 2
	DefaultUpdateWindowHour = 1
	DefaultTTLHours         = 1
	MaxTTLHours             = 12
)

// Stack providers.
const (
	ProviderAWS   = "aws"
	ProviderAzure = "azure"
)

// Environment variables holding secrets. They are never read from the config file.
const (
	EnvSingleStoreAPIKey = "SINGLESTORE_API_KEY"
	EnvAdminPassword     = "SINGLESTORE_ADMIN_PASSWORD"
	EnvAzureSubscription = "AZURE_SUBSCRIPTION_ID"
)

// ValidWorkspaceSizes contains all workspace size tiers accepted by the service.
var ValidWorkspaceSizes = map[string]bool{
	"S-00": true,
	"S-0":  true,
	"S-1":  true,
	"S-2":  true,
	"S-4":  true,
	"S-6":  true,
	"S-8":  true,
	"S-12": true,
	"S-16": true,
	"S-20": true,
	"S-24": true,
	"S-28": true,
}

// WorkspaceSizes returns the valid sizes in ascending order.
func WorkspaceSizes() []string {
	return []string{"S-00", "S-0", "S-1", "S-2", "S-4", "S-6", "S-8", "S-12", "S-16", "S-20", "S-24", "S-28"}
}
