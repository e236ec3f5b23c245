// Package envfile reads dotenv-style credential files.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/conn-castle/snset/internal/messages"
)

// ReadFile parses the .env file at path.
// It reports found=false (and no error) when the file does not exist.
func ReadFile(path string) (map[string]string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	env, err := Parse(string(data))
	if err != nil {
		return nil, true, err
	}
	return env, true, nil
}

// Parse reads .env content into a key-value map.
// Later assignments of the same key win.
func Parse(content string) (map[string]string, error) {
	env := make(map[string]string)
	if content == "" {
		return env, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf(messages.EnvfileLineErrorFmt, lineNo, err)
		}
		if ok {
			env[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.EnvfileReadFailedFmt, err)
	}
	return env, nil
}

// parseLine returns the key/value of a single line, ok=false for blanks and comments.
func parseLine(line string) (key string, value string, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))

	rawKey, rawValue, found := strings.Cut(trimmed, "=")
	key = strings.TrimSpace(rawKey)
	if !found || key == "" {
		return "", "", false, errors.New(messages.EnvfileExpectedKeyValue)
	}

	value = strings.TrimSpace(rawValue)
	switch {
	case strings.HasPrefix(value, `"`):
		value, err = unquoteDouble(value)
	case strings.HasPrefix(value, `'`):
		value, err = unquoteSingle(value)
	}
	if err != nil {
		return "", "", false, err
	}
	return key, value, true, nil
}

// unquoteDouble decodes a double-quoted value, honoring \\, \", \n and \r escapes.
func unquoteDouble(value string) (string, error) {
	var b strings.Builder
	for i := 1; i < len(value); i++ {
		c := value[i]
		if c == '"' {
			if err := checkSuffix(value[i+1:]); err != nil {
				return "", err
			}
			return b.String(), nil
		}
		if c == '\\' && i+1 < len(value) {
			switch value[i+1] {
			case '\\', '"':
				b.WriteByte(value[i+1])
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return "", errors.New(messages.EnvfileUnterminatedQuotedValue)
}

// unquoteSingle returns the literal payload of a single-quoted value.
func unquoteSingle(value string) (string, error) {
	end := strings.IndexByte(value[1:], '\'')
	if end < 0 {
		return "", errors.New(messages.EnvfileUnterminatedQuotedValue)
	}
	if err := checkSuffix(value[end+2:]); err != nil {
		return "", err
	}
	return value[1 : end+1], nil
}

// checkSuffix allows only whitespace or a comment after a closing quote.
func checkSuffix(suffix string) error {
	trimmed := strings.TrimSpace(suffix)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	return errors.New(messages.EnvfileInvalidQuotedSuffix)
}
