package core

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"hashart/random"
	"hashart/render"
	"hashart/sketch"
)

const validHash = "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

var configEnvKeys = []string{
	"HASH", "PHRASE", "OUTPUT_DIR", "RENDER_WIDTH", "RENDER_HEIGHT",
	"RENDER_FORMAT", "FIT_MODE", "THUMBNAIL_SIZE", "BATCH_WORKERS",
	"HISTORY_DB", "HISTORY_ENABLED", "HISTORY_RETENTION_DAYS",
	"DEV_MODE", "LOG_LEVEL", "LOG_FILE",
}

// clearConfigEnv blanks every variable LoadConfig reads and points HOME at
// a temp dir so the default history path is predictable.
func clearConfigEnv(t *testing.T) string {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := clearConfigEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, DefaultOutputDir)
	}
	if cfg.Width != render.DefaultSize || cfg.Height != render.DefaultSize {
		t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, render.DefaultSize, render.DefaultSize)
	}
	if cfg.Format != "png" || cfg.FitMode != "contain" {
		t.Errorf("format/fit = %q/%q, want png/contain", cfg.Format, cfg.FitMode)
	}
	if cfg.ThumbnailSize != DefaultThumbnailSize {
		t.Errorf("ThumbnailSize = %d, want %d", cfg.ThumbnailSize, DefaultThumbnailSize)
	}
	if !cfg.HistoryEnabled {
		t.Error("HistoryEnabled = false, want true")
	}
	if cfg.Workers < 1 {
		t.Errorf("Workers = %d, want >= 1", cfg.Workers)
	}
	if cfg.LogFile != DefaultLogFile || cfg.LogLevel != "" {
		t.Errorf("log = %q/%q, want %q and no level", cfg.LogFile, cfg.LogLevel, DefaultLogFile)
	}
	if !strings.HasPrefix(cfg.HistoryDB, home) {
		t.Errorf("HistoryDB = %q, want under %q", cfg.HistoryDB, home)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config Validate() = %v", err)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HASH", validHash)
	t.Setenv("OUTPUT_DIR", "/tmp/art")
	t.Setenv("RENDER_WIDTH", "800")
	t.Setenv("RENDER_HEIGHT", "600")
	t.Setenv("RENDER_FORMAT", "svg")
	t.Setenv("FIT_MODE", "cover")
	t.Setenv("THUMBNAIL_SIZE", "0")
	t.Setenv("BATCH_WORKERS", "3")
	t.Setenv("HISTORY_DB", "/tmp/h.db")
	t.Setenv("HISTORY_ENABLED", "no")
	t.Setenv("HISTORY_RETENTION_DAYS", "30")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FILE", "/tmp/x.log")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := Config{
		Hash:                 validHash,
		OutputDir:            "/tmp/art",
		Width:                800,
		Height:               600,
		Format:               "svg",
		FitMode:              "cover",
		ThumbnailSize:        0,
		Workers:              3,
		HistoryDB:            "/tmp/h.db",
		HistoryEnabled:       false,
		HistoryRetentionDays: 30,
		DevMode:              true,
		LogLevel:             "debug",
		LogFile:              "/tmp/x.log",
	}
	if *cfg != want {
		t.Errorf("LoadConfig() = %+v\nwant %+v", *cfg, want)
	}
}

func TestLoadConfig_MalformedInteger(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("RENDER_WIDTH", "wide")

	_, err := LoadConfig()
	if GetErrorCode(err) != ErrCodeInvalidDimensions {
		t.Fatalf("error code = %q, want %q (err = %v)", GetErrorCode(err), ErrCodeInvalidDimensions, err)
	}
	if !strings.Contains(err.Error(), "RENDER_WIDTH") {
		t.Errorf("error %q should name the variable", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"valid hash", func(c *Config) { c.Hash = validHash }, ""},
		{"short but decodable hash", func(c *Config) { c.Hash = validHash[:34] }, ""},
		{"phrase", func(c *Config) { c.Phrase = "hello" }, ""},
		{"bad hash", func(c *Config) { c.Hash = "0xnothex" }, ErrCodeInvalidSeed},
		{"hash and phrase", func(c *Config) { c.Hash = validHash; c.Phrase = "x" }, ErrCodeInvalidSeed},
		{"zero width", func(c *Config) { c.Width = 0 }, ErrCodeInvalidDimensions},
		{"huge height", func(c *Config) { c.Height = render.MaxDimension + 1 }, ErrCodeInvalidDimensions},
		{"negative thumbnail", func(c *Config) { c.ThumbnailSize = -1 }, ErrCodeInvalidDimensions},
		{"bad format", func(c *Config) { c.Format = "gif" }, ErrCodeInvalidFormat},
		{"bad fit", func(c *Config) { c.FitMode = "stretch" }, ErrCodeInvalidFitMode},
		{"no workers", func(c *Config) { c.Workers = 0 }, ErrCodeInvalidWorkers},
		{"negative retention", func(c *Config) { c.HistoryRetentionDays = -1 }, ErrCodeInvalidDimensions},
		{"empty output dir", func(c *Config) { c.OutputDir = " " }, ErrCodeMissingConfig},
		{"history without path", func(c *Config) { c.HistoryDB = "" }, ErrCodeMissingConfig},
		{"history disabled without path", func(c *Config) { c.HistoryDB = ""; c.HistoryEnabled = false }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.HistoryDB = filepath.Join(t.TempDir(), "h.db")
			tt.mutate(cfg)

			err := cfg.Validate()
			if got := GetErrorCode(err); got != tt.code {
				t.Errorf("Validate() code = %q, want %q (err = %v)", got, tt.code, err)
			}
		})
	}
}

func TestConfig_ValidateWrapsSeedError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hash = "0x12"

	err := cfg.Validate()
	if !errors.Is(err, random.ErrInvalidSeed) {
		t.Errorf("errors.Is(err, random.ErrInvalidSeed) = false for %v", err)
	}
}

func TestConfig_RenderOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 640, 480
	cfg.Format = "SVG"
	cfg.FitMode = "cover"

	opts, format, err := cfg.RenderOptions()
	if err != nil {
		t.Fatalf("RenderOptions() error = %v", err)
	}
	if format != render.FormatSVG {
		t.Errorf("format = %q, want svg", format)
	}
	if opts.Width != 640 || opts.Height != 480 || opts.Fit != sketch.FitCover {
		t.Errorf("opts = %+v", opts)
	}
}

func TestConfig_ResolveSeed(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Hash = validHash
	if hash, source := cfg.ResolveSeed(); hash != validHash || source != SeedSourceHash {
		t.Errorf("ResolveSeed() = %q, %q; want configured hash", hash, source)
	}

	cfg.Hash = ""
	cfg.Phrase = "hello"
	hash, source := cfg.ResolveSeed()
	if hash != random.HashFromPhrase("hello") || source != SeedSourcePhrase {
		t.Errorf("ResolveSeed() = %q, %q; want phrase hash", hash, source)
	}

	cfg.Phrase = ""
	hash, source = cfg.ResolveSeed()
	if source != SeedSourceRandom {
		t.Errorf("source = %q, want random", source)
	}
	if err := random.ValidateHash(hash); err != nil {
		t.Errorf("random hash %q invalid: %v", hash, err)
	}
}
