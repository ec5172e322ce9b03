package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// GetEnvOrDefault returns the value of key, or defaultValue when unset or empty.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// ParseIntEnv parses key as an integer, falling back to defaultValue when
// the variable is unset or malformed.
func ParseIntEnv(key string, defaultValue int) int {
	if value, err := ParseIntEnvStrict(key, defaultValue); err == nil {
		return value
	}
	return defaultValue
}

// ParseIntEnvStrict is ParseIntEnv but reports malformed values instead of
// silently using the default.
func ParseIntEnvStrict(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s=%q is not an integer", key, value)
	}
	return n, nil
}

// ParseBoolEnv parses key as a boolean.
// Accepts case-insensitive "true", "1", "yes", "on" and "false", "0", "no", "off".
// Anything else, or an unset variable, yields defaultValue.
func ParseBoolEnv(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
