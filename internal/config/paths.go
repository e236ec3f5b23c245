package config

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// DefaultPath returns ~/.config/snset/config.toml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "snset", "config.toml"), nil
}
