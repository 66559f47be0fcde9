package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	GroupActive       time.Duration // Wait for a workspace group to become ACTIVE
	WorkspaceActive   time.Duration // Wait for a workspace to become ACTIVE
	PollInterval      time.Duration // Delay between state fetches
	Stack             time.Duration // Wait for the infrastructure stack to complete
	RetryMaxAttempts  int           // Maximum attempts for template downloads
	RetryInitialDelay time.Duration // Initial delay between download retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - DEMOLAB_TIMEOUT_GROUP_ACTIVE (default: 10m)
//   - DEMOLAB_TIMEOUT_WORKSPACE_ACTIVE (default: 10m)
//   - DEMOLAB_POLL_INTERVAL (default: 5s)
//   - DEMOLAB_TIMEOUT_STACK (default: 60m)
//   - DEMOLAB_RETRY_MAX_ATTEMPTS (default: 3)
//   - DEMOLAB_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		GroupActive:       parseDuration("DEMOLAB_TIMEOUT_GROUP_ACTIVE", 10*time.Minute),
		WorkspaceActive:   parseDuration("DEMOLAB_TIMEOUT_WORKSPACE_ACTIVE", 10*time.Minute),
		PollInterval:      parseDuration("DEMOLAB_POLL_INTERVAL", 5*time.Second),
		Stack:             parseDuration("DEMOLAB_TIMEOUT_STACK", 60*time.Minute),
		RetryMaxAttempts:  parseInt("DEMOLAB_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: parseDuration("DEMOLAB_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a positive duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses a positive integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return defaultVal
	}

	return i
}
