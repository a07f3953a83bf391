package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret comes from.
type Source struct {
	// Name appears in error messages, e.g. "gemini api key".
	Name string
	// Value is the inline secret from config or environment.
	Value string
	// File holds the secret on disk and wins over Value.
	File string
	// Optional secrets resolve to an empty string when nothing is configured.
	Optional bool
}

// Load resolves the secret and trims surrounding whitespace.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	value := src.Value
	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		value = string(data)
	}

	secret := strings.TrimSpace(value)
	switch {
	case secret != "":
		return secret, nil
	case file != "":
		return "", fmt.Errorf("%s file %q is empty", name, file)
	case src.Optional:
		return "", nil
	default:
		return "", fmt.Errorf("%s is not configured", name)
	}
}
