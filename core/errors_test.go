package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigError_Error(t *testing.T) {
	withAction := &ConfigError{Code: "X", Message: "Bad thing", Action: "Fix it"}
	if got := withAction.Error(); got != "Bad thing. Fix it" {
		t.Errorf("Error() = %q", got)
	}

	bare := &ConfigError{Code: "X", Message: "Bad thing"}
	if got := bare.Error(); got != "Bad thing" {
		t.Errorf("Error() = %q", got)
	}
}

func TestConfigError_Constructors(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		err      *ConfigError
		code     string
		contains string
	}{
		{ErrInvalidSeed("0x1", cause), ErrCodeInvalidSeed, "0x1"},
		{ErrConflictingSeed(), ErrCodeInvalidSeed, "PHRASE"},
		{ErrInvalidDimensions("RENDER_WIDTH", cause), ErrCodeInvalidDimensions, "RENDER_WIDTH"},
		{ErrInvalidFormat("gif", cause), ErrCodeInvalidFormat, "gif"},
		{ErrInvalidFitMode("stretch", cause), ErrCodeInvalidFitMode, "stretch"},
		{ErrInvalidWorkers(0), ErrCodeInvalidWorkers, "BATCH_WORKERS"},
		{ErrInvalidCount("-n", -1, 0), ErrCodeInvalidCount, "-n -1"},
		{ErrOutputDirUnwritable("/ro", cause), ErrCodeOutputDirUnwritable, "/ro"},
		{ErrHistoryUnavailable("/h.db", cause), ErrCodeHistoryUnavailable, "HISTORY_ENABLED"},
		{ErrMissingConfig("OUTPUT_DIR"), ErrCodeMissingConfig, "OUTPUT_DIR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Action == "" {
				t.Error("Action should not be empty")
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("Error() = %q, want to contain %q", tt.err.Error(), tt.contains)
			}
		})
	}

	if !errors.Is(ErrInvalidSeed("0x1", cause), cause) {
		t.Error("ErrInvalidSeed should unwrap to its cause")
	}
}

func TestIsConfigError(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", ErrMissingConfig("X"))

	cfgErr, ok := IsConfigError(wrapped)
	if !ok || cfgErr.Code != ErrCodeMissingConfig {
		t.Errorf("IsConfigError(wrapped) = %v, %v", cfgErr, ok)
	}
	if _, ok := IsConfigError(errors.New("plain")); ok {
		t.Error("IsConfigError(plain) = true")
	}
	if GetErrorCode(nil) != "" {
		t.Error("GetErrorCode(nil) should be empty")
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitCodeSuccess},
		{errors.New("boom"), ExitCodeError},
		{fmt.Errorf("wrap: %w", ErrInvalidWorkers(0)), ExitCodeUsage},
	}
	for _, tt := range tests {
		if got := ExitCodeForError(tt.err); got != tt.want {
			t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}

	names := map[int]string{
		ExitCodeSuccess: "success",
		ExitCodeError:   "error",
		ExitCodeUsage:   "usage",
		ExitCodeSIGINT:  "interrupted (SIGINT)",
		ExitCodeSIGTERM: "terminated (SIGTERM)",
		99:              "unknown",
	}
	for code, want := range names {
		if got := ExitCodeName(code); got != want {
			t.Errorf("ExitCodeName(%d) = %q, want %q", code, got, want)
		}
	}

	if !IsSignalExit(ExitCodeSIGINT) || !IsSignalExit(ExitCodeSIGTERM) || IsSignalExit(ExitCodeUsage) {
		t.Error("IsSignalExit misclassified a code")
	}
}
