// Package config loads and validates the snset TOML configuration.
package config

import "time"

// Config is the full snset configuration.
type Config struct {
	ServiceNow  ServiceNowConfig  `toml:"servicenow"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// ServiceNowConfig describes how instances are reached.
type ServiceNowConfig struct {
	Instances       []string `toml:"instances"`
	BaseURL         string   `toml:"base_url"`
	TimestampLayout string   `toml:"timestamp_layout"`
	TimeoutSeconds  int      `toml:"timeout_seconds"`
}

// CredentialsConfig names the environment variables holding basic auth credentials.
type CredentialsConfig struct {
	UserEnv     string `toml:"user_env"`
	PasswordEnv string `toml:"password_env"`
}

// Timeout returns the HTTP timeout as a duration.
func (c ServiceNowConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
