// Package config reads secrets and settings through Viper with a direct
// environment fallback.
package config

import (
	"os"
	"regexp"

	"github.com/spf13/viper"

	"github.com/agentstation/shelf/pkg/errors"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// APIKey describes where a catalog or write endpoint key is read from.
type APIKey struct {
	Env      string // Environment variable or config key
	Pattern  string // Optional validation pattern
	Required bool
}

// GetAPIKey resolves key. An empty result with a nil error means no key is
// configured and none is required.
func GetAPIKey(key APIKey) (string, error) {
	if key.Env == "" {
		return "", nil
	}

	value := GetString(key.Env)
	if value == "" {
		if key.Required {
			return "", errors.NewConfigError(key.Env, "environment variable not set", nil)
		}
		return "", nil
	}

	if key.Pattern != "" && key.Pattern != ".*" {
		matched, err := regexp.MatchString(key.Pattern, value)
		if err != nil {
			return "", errors.NewConfigError(key.Env, "invalid pattern "+key.Pattern, err)
		}
		if !matched {
			return "", errors.NewConfigError(key.Env, "API key does not match required pattern", nil)
		}
	}

	return value, nil
}
