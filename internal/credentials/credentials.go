// Package credentials resolves the basic auth credentials used against ServiceNow.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/snset/internal/envfile"
	"github.com/conn-castle/snset/internal/messages"
)

// Default environment variable names.
const (
	UserEnv     = "SN_USER_NAME"
	PasswordEnv = "SN_PASSWORD"
)

// ErrMissing is returned when the username or password is empty.
var ErrMissing = errors.New(messages.CredentialsMissing)

// Credentials holds basic auth credentials.
type Credentials struct {
	User     string
	Password string
}

// Validate reports ErrMissing when either credential is blank.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.User) == "" || c.Password == "" {
		return ErrMissing
	}
	return nil
}

// Source locates credentials.
type Source struct {
	// Lookup reads the process environment (os.LookupEnv in production).
	Lookup      func(string) (string, bool)
	EnvFile     string
	UserEnv     string
	PasswordEnv string
}

// Load resolves credentials from the environment, filling any unset value
// from EnvFile. Values present in the environment win. A missing EnvFile is
// ignored; a malformed one is an error. The result is validated.
func Load(src Source) (Credentials, error) {
	userKey := src.UserEnv
	if userKey == "" {
		userKey = UserEnv
	}
	passwordKey := src.PasswordEnv
	if passwordKey == "" {
		passwordKey = PasswordEnv
	}

	var creds Credentials
	userSet, passwordSet := false, false
	if src.Lookup != nil {
		creds.User, userSet = src.Lookup(userKey)
		creds.Password, passwordSet = src.Lookup(passwordKey)
	}

	if (!userSet || !passwordSet) && src.EnvFile != "" {
		path, err := homedir.Expand(src.EnvFile)
		if err != nil {
			return Credentials{}, fmt.Errorf(messages.CredentialsReadEnvFileFmt, src.EnvFile, err)
		}
		env, found, err := envfile.ReadFile(path)
		if err != nil {
			if found {
				return Credentials{}, fmt.Errorf(messages.CredentialsParseEnvFmt, path, err)
			}
			return Credentials{}, fmt.Errorf(messages.CredentialsReadEnvFileFmt, path, err)
		}
		if !userSet {
			creds.User = env[userKey]
		}
		if !passwordSet {
			creds.Password = env[passwordKey]
		}
	}

	if err := creds.Validate(); err != nil {
		return Credentials{}, fmt.Errorf(messages.CredentialsMissingVarsFmt, err, userKey, passwordKey)
	}
	return creds, nil
}
