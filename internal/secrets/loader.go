// Package secrets resolves credentials such as the Gemini API key.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret may come from.
// Precedence is File, then Value, then Env.
type Source struct {
	// Name is used in error messages.
	Name string
	// Value is an inline secret from configuration or flags.
	Value string
	// File points to a file containing the secret.
	File string
	// Env names an environment variable consulted when neither File nor Value is set.
	Env string
}

var lookupEnv = os.LookupEnv

// Load returns the trimmed secret described by src.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if value, ok := lookupEnv(env); ok {
			if secret := strings.TrimSpace(value); secret != "" {
				return secret, nil
			}
		}
		return "", fmt.Errorf("%s is not configured (set %s)", name, env)
	}

	return "", fmt.Errorf("%s is not configured", name)
}
