package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
	Err     error  // Underlying cause, if any
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Error codes for configuration errors
const (
	ErrCodeInvalidSeed         = "INVALID_SEED"
	ErrCodeInvalidDimensions   = "INVALID_DIMENSIONS"
	ErrCodeInvalidFormat       = "INVALID_FORMAT"
	ErrCodeInvalidFitMode      = "INVALID_FIT_MODE"
	ErrCodeInvalidWorkers      = "INVALID_WORKERS"
	ErrCodeInvalidCount        = "INVALID_COUNT"
	ErrCodeOutputDirUnwritable = "OUTPUT_DIR_UNWRITABLE"
	ErrCodeHistoryUnavailable  = "HISTORY_UNAVAILABLE"
	ErrCodeMissingConfig       = "MISSING_CONFIG"
)

// ErrInvalidSeed reports a HASH that cannot be decoded into generator state.
func ErrInvalidSeed(hash string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidSeed,
		Message: fmt.Sprintf("Invalid HASH %q: %v", hash, cause),
		Action:  "Set HASH to 0x followed by 64 hex digits, or use PHRASE instead",
		Err:     cause,
	}
}

// ErrConflictingSeed reports that both HASH and PHRASE were given.
func ErrConflictingSeed() *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidSeed,
		Message: "Both HASH and PHRASE are set",
		Action:  "Set only one of HASH or PHRASE",
	}
}

// ErrInvalidDimensions reports an unusable width, height or thumbnail size.
func ErrInvalidDimensions(what string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidDimensions,
		Message: fmt.Sprintf("Invalid %s: %v", what, cause),
		Action:  "Use positive pixel sizes no larger than 16384",
		Err:     cause,
	}
}

// ErrInvalidFormat reports an unknown RENDER_FORMAT.
func ErrInvalidFormat(format string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidFormat,
		Message: fmt.Sprintf("Unsupported RENDER_FORMAT %q", format),
		Action:  "Set RENDER_FORMAT to png or svg",
		Err:     cause,
	}
}

// ErrInvalidFitMode reports an unknown FIT_MODE.
func ErrInvalidFitMode(mode string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidFitMode,
		Message: fmt.Sprintf("Unsupported FIT_MODE %q", mode),
		Action:  "Set FIT_MODE to contain or cover",
		Err:     cause,
	}
}

// ErrInvalidWorkers reports a non-positive BATCH_WORKERS.
func ErrInvalidWorkers(n int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidWorkers,
		Message: fmt.Sprintf("Invalid BATCH_WORKERS %d", n),
		Action:  "Set BATCH_WORKERS to 1 or more",
	}
}

// ErrInvalidCount reports a command-line count below least, such as a
// negative -n or -prune.
func ErrInvalidCount(flag string, n, least int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidCount,
		Message: fmt.Sprintf("Invalid %s %d", flag, n),
		Action:  fmt.Sprintf("Pass %s %d or more", flag, least),
	}
}

// ErrOutputDirUnwritable reports an output directory that cannot be written.
func ErrOutputDirUnwritable(dir string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeOutputDirUnwritable,
		Message: fmt.Sprintf("Cannot write to output directory %s: %v", dir, cause),
		Action:  "Check OUTPUT_DIR exists and is writable, or point it elsewhere",
		Err:     cause,
	}
}

// ErrHistoryUnavailable reports a history database that cannot be opened.
func ErrHistoryUnavailable(path string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeHistoryUnavailable,
		Message: fmt.Sprintf("Cannot open render history at %s: %v", path, cause),
		Action:  "Check HISTORY_DB, or set HISTORY_ENABLED=false",
		Err:     cause,
	}
}

// ErrMissingConfig returns an error for missing required configuration
func ErrMissingConfig(varName string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", varName),
		Action:  fmt.Sprintf("Set %s in your environment or .env file", varName),
	}
}

// IsConfigError reports whether err wraps a ConfigError and returns it.
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
