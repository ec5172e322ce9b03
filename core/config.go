package core

import (
	"runtime"
	"strings"

	"hashart/random"
	"hashart/render"
	"hashart/sketch"
)

// Default configuration values.
const (
	DefaultOutputDir     = "./output"
	DefaultThumbnailSize = 256
	DefaultLogFile       = "hashart.log"
	DefaultHistoryFile   = "history.db"
)

// Seed sources, as reported by ResolveSeed.
const (
	SeedSourceHash   = "hash"
	SeedSourcePhrase = "phrase"
	SeedSourceRandom = "random"
)

// Config holds all configuration values. LoadConfig fills it from the
// environment; command-line flags then override individual fields.
type Config struct {
	// Seed selection. At most one of Hash and Phrase may be set; with
	// neither, a random hash is drawn.
	Hash   string
	Phrase string

	// Output
	OutputDir     string
	Width         int
	Height        int
	Format        string // png or svg
	FitMode       string // contain or cover
	ThumbnailSize int    // 0 disables thumbnails

	// Batch rendering
	Workers int

	// Render history
	HistoryDB            string
	HistoryEnabled       bool
	HistoryRetentionDays int // 0 keeps everything

	// Logging
	DevMode  bool
	LogLevel string // empty means debug in DEV_MODE, info otherwise
	LogFile  string
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:      DefaultOutputDir,
		Width:          render.DefaultSize,
		Height:         render.DefaultSize,
		Format:         string(render.FormatPNG),
		FitMode:        sketch.FitContain.String(),
		ThumbnailSize:  DefaultThumbnailSize,
		Workers:        runtime.NumCPU(),
		HistoryDB:      GetDataFilePath(DefaultHistoryFile),
		HistoryEnabled: true,
		LogFile:        DefaultLogFile,
	}
}

// LoadConfig reads configuration from environment variables. Callers load
// .env with godotenv first.
//
// Only malformed integers are reported here; semantic checks live in Validate
// so they also cover values overridden by flags.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	cfg.Hash = GetEnvOrDefault("HASH", "")
	cfg.Phrase = GetEnvOrDefault("PHRASE", "")
	cfg.OutputDir = GetEnvOrDefault("OUTPUT_DIR", cfg.OutputDir)
	cfg.Format = GetEnvOrDefault("RENDER_FORMAT", cfg.Format)
	cfg.FitMode = GetEnvOrDefault("FIT_MODE", cfg.FitMode)
	cfg.HistoryDB = GetEnvOrDefault("HISTORY_DB", cfg.HistoryDB)
	cfg.HistoryEnabled = ParseBoolEnv("HISTORY_ENABLED", cfg.HistoryEnabled)
	cfg.DevMode = ParseBoolEnv("DEV_MODE", cfg.DevMode)
	cfg.LogLevel = GetEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = GetEnvOrDefault("LOG_FILE", cfg.LogFile)

	ints := []struct {
		key  string
		dst  *int
		what string
	}{
		{"RENDER_WIDTH", &cfg.Width, "RENDER_WIDTH"},
		{"RENDER_HEIGHT", &cfg.Height, "RENDER_HEIGHT"},
		{"THUMBNAIL_SIZE", &cfg.ThumbnailSize, "THUMBNAIL_SIZE"},
		{"BATCH_WORKERS", &cfg.Workers, "BATCH_WORKERS"},
		{"HISTORY_RETENTION_DAYS", &cfg.HistoryRetentionDays, "HISTORY_RETENTION_DAYS"},
	}
	for _, v := range ints {
		n, err := ParseIntEnvStrict(v.key, *v.dst)
		if err != nil {
			return nil, ErrInvalidDimensions(v.what, err)
		}
		*v.dst = n
	}

	return cfg, nil
}

// Validate returns the first problem found as a *ConfigError.
// It has no side effects; filesystem checks belong to the validation suite.
func (c *Config) Validate() error {
	if c.Hash != "" && c.Phrase != "" {
		return ErrConflictingSeed()
	}
	if c.Hash != "" {
		if _, err := random.DecodeSeed(c.Hash); err != nil {
			return ErrInvalidSeed(c.Hash, err)
		}
	}

	if _, _, err := c.RenderOptions(); err != nil {
		return err
	}

	if c.ThumbnailSize < 0 || c.ThumbnailSize > render.MaxDimension {
		return ErrInvalidDimensions("THUMBNAIL_SIZE", render.ErrInvalidDimensions)
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers(c.Workers)
	}
	if c.HistoryRetentionDays < 0 {
		return ErrInvalidDimensions("HISTORY_RETENTION_DAYS", render.ErrInvalidDimensions)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return ErrMissingConfig("OUTPUT_DIR")
	}
	if c.HistoryEnabled && strings.TrimSpace(c.HistoryDB) == "" {
		return ErrMissingConfig("HISTORY_DB")
	}
	return nil
}

// RenderOptions parses the output settings.
func (c *Config) RenderOptions() (render.Options, render.Format, error) {
	format, err := render.ParseFormat(c.Format)
	if err != nil {
		return render.Options{}, "", ErrInvalidFormat(c.Format, err)
	}

	fit, err := sketch.ParseFitMode(c.FitMode)
	if err != nil {
		return render.Options{}, "", ErrInvalidFitMode(c.FitMode, err)
	}

	opts := render.Options{Width: c.Width, Height: c.Height, Fit: fit}
	if err := opts.Validate(); err != nil {
		return render.Options{}, "", ErrInvalidDimensions("render size", err)
	}
	return opts, format, nil
}

// ResolveSeed returns the hash to render and where it came from: the
// configured hash, the Keccak-256 of the phrase, or a fresh random hash.
func (c *Config) ResolveSeed() (hash, source string) {
	switch {
	case c.Hash != "":
		return c.Hash, SeedSourceHash
	case c.Phrase != "":
		return random.HashFromPhrase(c.Phrase), SeedSourcePhrase
	default:
		return random.RandomHash(), SeedSourceRandom
	}
}
