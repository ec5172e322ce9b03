// Package validation runs the pre-flight checks behind `hashart validate`:
// seed, render settings, output directory, disk space and history database.
package validation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hashart/core"
	"hashart/db"
	"hashart/random"
)

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Status  StepStatus
	Message string
	Error   error
}

func passed(format string, args ...interface{}) CheckResult {
	return CheckResult{Status: StepPassed, Message: fmt.Sprintf(format, args...)}
}

func warning(format string, args ...interface{}) CheckResult {
	return CheckResult{Status: StepWarning, Message: fmt.Sprintf(format, args...)}
}

func failed(err error) CheckResult {
	return CheckResult{Status: StepFailed, Error: err}
}

// CheckEnvFile reports whether the .env file exists. A missing file is only
// a warning since every setting has a default.
func CheckEnvFile(path string) CheckResult {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return warning("%s not found, using environment and defaults", path)
	case err != nil:
		return failed(fmt.Errorf("cannot read %s: %w", path, err))
	case info.IsDir():
		return failed(fmt.Errorf("%s is a directory", path))
	}
	return passed("loaded %s", path)
}

// CheckSeed verifies the configured seed decodes. A hash shorter than the
// canonical 66 characters still renders but only its first 34 are read.
func CheckSeed(cfg *core.Config) CheckResult {
	switch {
	case cfg.Hash != "" && cfg.Phrase != "":
		return failed(core.ErrConflictingSeed())
	case cfg.Hash != "":
		if _, err := random.DecodeSeed(cfg.Hash); err != nil {
			return failed(core.ErrInvalidSeed(cfg.Hash, err))
		}
		if err := random.ValidateHash(cfg.Hash); err != nil {
			return warning("HASH is decodable but not canonical: %v", err)
		}
		return passed("HASH %s", cfg.Hash)
	case cfg.Phrase != "":
		return passed("PHRASE resolves to %s", random.HashFromPhrase(cfg.Phrase))
	default:
		return warning("no HASH or PHRASE, each render uses a random hash")
	}
}

// CheckRenderSettings validates size, format, fit and thumbnail settings.
func CheckRenderSettings(cfg *core.Config) CheckResult {
	opts, format, err := cfg.RenderOptions()
	if err != nil {
		return failed(err)
	}
	if cfg.ThumbnailSize < 0 {
		return failed(core.ErrInvalidDimensions("THUMBNAIL_SIZE", fmt.Errorf("%d is negative", cfg.ThumbnailSize)))
	}
	msg := fmt.Sprintf("%dx%d %s, fit %s", opts.Width, opts.Height, format, opts.Fit)
	if cfg.ThumbnailSize > 0 {
		msg += fmt.Sprintf(", %dpx thumbnails", cfg.ThumbnailSize)
	}
	return passed("%s", msg)
}

// CheckOutputDir creates dir if needed and proves it is writable by
// creating and removing a probe file.
func CheckOutputDir(dir string) CheckResult {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return failed(core.ErrOutputDirUnwritable(dir, err))
	}

	probe, err := os.CreateTemp(dir, ".hashart-probe-*")
	if err != nil {
		return failed(core.ErrOutputDirUnwritable(dir, err))
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		return failed(core.ErrOutputDirUnwritable(dir, err))
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return passed("%s is writable", abs)
}

// CheckHistory opens and migrates the history database. Disabled history
// is reported as skipped.
func CheckHistory(ctx context.Context, cfg *core.Config) CheckResult {
	if !cfg.HistoryEnabled {
		return CheckResult{Status: StepSkipped, Message: "HISTORY_ENABLED=false"}
	}

	database, err := db.Open(cfg.HistoryDB)
	if err != nil {
		return failed(core.ErrHistoryUnavailable(cfg.HistoryDB, err))
	}
	defer database.Close()

	count, err := db.NewRepository(database).CountRenders(ctx)
	if err != nil {
		return failed(core.ErrHistoryUnavailable(cfg.HistoryDB, err))
	}
	return passed("%s (%d renders)", cfg.HistoryDB, count)
}
