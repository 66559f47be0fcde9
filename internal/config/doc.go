// Package config defines the configuration model of a demo launch.
//
// A [Config] is read from a YAML file (demolab.yaml by default), completed
// with defaults and secrets from the environment, and validated once by
// [Load]. Timeouts and retry parameters are configured separately through
// environment variables, see [LoadTimeouts].
package config
