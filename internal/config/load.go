package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/snset/internal/messages"
)

// ErrConfigValidation wraps config validation failures, as opposed to TOML
// syntax or filesystem errors.
var ErrConfigValidation = errors.New("config validation failed")

//go:embed default_config.toml
var defaultConfig []byte

// defaultPathFunc is a seam for tests.
var defaultPathFunc = DefaultPath

// Default returns the built-in configuration.
func Default() (*Config, error) {
	return ParseConfig(defaultConfig, "default config")
}

// Load reads the config at path layered over the defaults.
// An empty path falls back to DefaultPath, and the defaults are used when
// that file does not exist. An explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = defaultPathFunc()
		if err != nil {
			return Default()
		}
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigExpandPathFmt, path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default()
		}
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, expanded, err)
	}
	return ParseConfig(data, expanded)
}

// ParseConfig decodes data over the defaults and validates the result.
// source is used in error messages.
func ParseConfig(data []byte, source string) (*Config, error) {
	var cfg Config
	if err := decodeStrict(defaultConfig, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigFailedReadTemplateFmt, err)
	}
	var user Config
	if err := decodeStrict(data, &user); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	cfg.overlay(user)
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return &cfg, nil
}

// decodeStrict decodes TOML into cfg, rejecting unknown keys.
func decodeStrict(data []byte, cfg *Config) error {
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(cfg)
}

// overlay copies every value set in src over c.
func (c *Config) overlay(src Config) {
	if src.ServiceNow.Instances != nil {
		c.ServiceNow.Instances = src.ServiceNow.Instances
	}
	if src.ServiceNow.BaseURL != "" {
		c.ServiceNow.BaseURL = src.ServiceNow.BaseURL
	}
	if src.ServiceNow.TimestampLayout != "" {
		c.ServiceNow.TimestampLayout = src.ServiceNow.TimestampLayout
	}
	if src.ServiceNow.TimeoutSeconds != 0 {
		c.ServiceNow.TimeoutSeconds = src.ServiceNow.TimeoutSeconds
	}
	if src.Credentials.UserEnv != "" {
		c.Credentials.UserEnv = src.Credentials.UserEnv
	}
	if src.Credentials.PasswordEnv != "" {
		c.Credentials.PasswordEnv = src.Credentials.PasswordEnv
	}
}
