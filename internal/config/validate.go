package config

import (
	"fmt"
	"strings"

	"github.com/conn-castle/snset/internal/messages"
)

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(path string) error {
	sn := c.ServiceNow
	if len(sn.Instances) == 0 {
		return fmt.Errorf(messages.ConfigInstancesRequiredFmt, path)
	}
	seen := make(map[string]int, len(sn.Instances))
	for i, instance := range sn.Instances {
		if strings.TrimSpace(instance) == "" {
			return fmt.Errorf(messages.ConfigInstanceBlankFmt, path, i)
		}
		if first, ok := seen[instance]; ok {
			return fmt.Errorf(messages.ConfigInstanceDuplicateFmt, path, i, instance, first)
		}
		seen[instance] = i
	}
	if strings.Count(sn.BaseURL, "%s") != 1 || strings.Count(sn.BaseURL, "%") != 1 {
		return fmt.Errorf(messages.ConfigBaseURLInvalidFmt, path, sn.BaseURL)
	}
	if strings.TrimSpace(sn.TimestampLayout) == "" {
		return fmt.Errorf(messages.ConfigTimestampLayoutEmptyFmt, path)
	}
	if sn.TimeoutSeconds <= 0 {
		return fmt.Errorf(messages.ConfigTimeoutInvalidFmt, path)
	}
	if strings.TrimSpace(c.Credentials.UserEnv) == "" {
		return fmt.Errorf(messages.ConfigCredentialEnvEmptyFmt, path, "user_env")
	}
	if strings.TrimSpace(c.Credentials.PasswordEnv) == "" {
		return fmt.Errorf(messages.ConfigCredentialEnvEmptyFmt, path, "password_env")
	}
	return nil
}
