package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hashart/core"
	"hashart/core/validation"
	"hashart/random"
	"hashart/sketch"
)

// validateTimeout bounds the validate command, which opens the history database.
const validateTimeout = 30 * time.Second

func runScene(c *cli, args []string) int {
	cfg, ok := c.loadConfig()
	if !ok {
		return core.ExitCodeUsage
	}
	fs := c.newFlagSet("scene", "")
	bindSeedFlags(fs, cfg)
	format := fs.String("format", "json", "output encoding: json or yaml")
	if code, ok := parse(fs, args); !ok {
		return code
	}

	if err := checkSeed(cfg); err != nil {
		c.printError(err)
		return core.ExitCodeUsage
	}
	hash, source := cfg.ResolveSeed()
	if source == core.SeedSourceRandom {
		c.printWarning("no -hash or -phrase given, using random hash %s", hash)
	}
	scene, err := sketch.Generate(hash)
	if err != nil {
		c.printError(err)
		return core.ExitCodeError
	}

	switch strings.ToLower(*format) {
	case "json":
		err = sketch.EncodeJSON(c.stdout, scene)
	case "yaml", "yml":
		err = sketch.EncodeYAML(c.stdout, scene)
	default:
		c.printError(core.ErrInvalidFormat(*format, fmt.Errorf("scene format must be json or yaml")))
		return core.ExitCodeUsage
	}
	if err != nil {
		c.printError(err)
		return core.ExitCodeError
	}
	return core.ExitCodeSuccess
}

// checkSeed applies the seed rules of Config.Validate without the render
// settings, which scene does not use.
func checkSeed(cfg *core.Config) error {
	if cfg.Hash != "" && cfg.Phrase != "" {
		return core.ErrConflictingSeed()
	}
	if cfg.Hash != "" {
		if _, err := random.DecodeSeed(cfg.Hash); err != nil {
			return core.ErrInvalidSeed(cfg.Hash, err)
		}
	}
	return nil
}

func runHash(c *cli, args []string) int {
	fs := c.newFlagSet("hash", "")
	phrase := fs.String("phrase", "", "derive the hash from this phrase")
	count := fs.Int("n", 1, "number of random hashes to print")
	if code, ok := parse(fs, args); !ok {
		return code
	}

	if *phrase != "" {
		writeLine(c.stdout, "%s", random.HashFromPhrase(*phrase))
		return core.ExitCodeSuccess
	}
	if *count < 1 {
		c.printError(core.ErrInvalidCount("-n", *count, 1))
		return core.ExitCodeUsage
	}
	for i := 0; i < *count; i++ {
		writeLine(c.stdout, "%s", random.RandomHash())
	}
	return core.ExitCodeSuccess
}

func runValidate(c *cli, args []string) int {
	cfg, ok := c.loadConfig()
	if !ok {
		return core.ExitCodeUsage
	}
	fs := c.newFlagSet("validate", "")
	bindSeedFlags(fs, cfg)
	bindOutputFlags(fs, cfg)
	failFast := fs.Bool("fail-fast", false, "stop at the first failed check")
	quiet := fs.Bool("quiet", false, "print only the summary line")
	if code, ok := parse(fs, args); !ok {
		return code
	}

	ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
	defer cancel()

	result := validation.NewValidationSuite(cfg).
		WithOutput(c.stdout).
		WithEnvPath(c.envPath).
		WithShowProgress(!*quiet).
		WithFailFast(*failFast).
		Validate(ctx)

	if *quiet {
		writeLine(c.stdout, "%s", result.Summary())
	}
	if !result.Success {
		if err := result.FirstError(); err != nil {
			return core.ExitCodeForError(err)
		}
		return core.ExitCodeError
	}
	return core.ExitCodeSuccess
}

func runVersion(c *cli, args []string) int {
	fs := c.newFlagSet("version", "")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	writeLine(c.stdout, "%s", core.GetVersionInfo())
	return core.ExitCodeSuccess
}
