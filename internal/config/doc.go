// Package config loads the accounts-service configuration from environment
// variables, command-line flags, and an optional JSON file, merging the
// three sources in that priority order and validating the result.
package config
