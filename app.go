package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"hashart/core"
	"hashart/db"
	"hashart/logging"
	"hashart/shutdown"
)

// logFileDisabled turns off the rotating log file when used as LOG_FILE.
var logFileDisabled = map[string]bool{"off": true, "none": true, "-": true}

var (
	errLabel  = color.New(color.FgRed, color.Bold)
	warnLabel = color.New(color.FgYellow, color.Bold)
	okLabel   = color.New(color.FgGreen, color.Bold)
	dim       = color.New(color.Faint)
)

// newFlagSet returns a FlagSet that reports parse errors instead of exiting.
func (c *cli) newFlagSet(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() {
		fmt.Fprintf(c.stderr, "Usage: hashart %s [flags] %s\n\nFlags:\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

// parse runs fs over args. ok is false when the command should stop, with
// code being the exit status (0 for -help).
func parse(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return core.ExitCodeSuccess, false
		}
		return core.ExitCodeUsage, false
	}
	return core.ExitCodeSuccess, true
}

// loadConfig reads the environment, printing any problem.
func (c *cli) loadConfig() (*core.Config, bool) {
	cfg, err := core.LoadConfig()
	if err != nil {
		c.printError(err)
		return nil, false
	}
	return cfg, true
}

// bindSeedFlags adds -hash and -phrase.
func bindSeedFlags(fs *flag.FlagSet, cfg *core.Config) {
	fs.StringVar(&cfg.Hash, "hash", cfg.Hash, "seed hash (0x + 64 hex digits)")
	fs.StringVar(&cfg.Phrase, "phrase", cfg.Phrase, "derive the seed from this phrase (Keccak-256)")
}

// bindOutputFlags adds the flags shared by render and batch.
func bindOutputFlags(fs *flag.FlagSet, cfg *core.Config) {
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output directory")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "output width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "output height in pixels")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: png or svg")
	fs.StringVar(&cfg.FitMode, "fit", cfg.FitMode, "fit the unit square: contain or cover")
	fs.IntVar(&cfg.ThumbnailSize, "thumb", cfg.ThumbnailSize, "thumbnail edge in pixels, 0 to disable")
	fs.BoolVar(&cfg.HistoryEnabled, "history", cfg.HistoryEnabled, "record renders in the history database")
}

// newLogger builds the logger described by cfg. Console output goes to
// stderr so stdout stays usable for data.
func (c *cli) newLogger(cfg *core.Config) (*logging.Logger, error) {
	def := logging.InfoLevel
	if cfg.DevMode {
		def = logging.DebugLevel
	}
	path := cfg.LogFile
	if logFileDisabled[strings.ToLower(path)] {
		path = ""
	}
	return logging.NewLogger(logging.Config{
		Development: cfg.DevMode,
		Level:       logging.ParseLogLevelString(cfg.LogLevel, def),
		FilePath:    path,
		Console:     c.stderr,
	})
}

// newManager wires a shutdown.Manager that flushes log at the very end.
func newManager(log *logging.Logger) *shutdown.Manager {
	m := shutdown.NewManager(log.Zap().WithOptions(zap.AddCallerSkip(-1)))
	m.OnShutdown("logger", shutdown.PriorityLogs, func(context.Context) error {
		// stderr and stdout return EINVAL on Sync on some platforms
		_ = log.Sync()
		return nil
	})
	return m
}

// history is the open render history for one command.
type history struct {
	db     *db.Database
	repo   *db.Repository
	writer *db.AsyncWriter
}

// openHistory opens cfg.HistoryDB and applies the retention policy. It
// returns nil without error when history is disabled. With async set,
// inserts are queued on a background writer.
func openHistory(ctx context.Context, cfg *core.Config, log *logging.Logger, async bool) (*history, error) {
	if !cfg.HistoryEnabled {
		return nil, nil
	}
	database, err := db.Open(cfg.HistoryDB)
	if err != nil {
		return nil, core.ErrHistoryUnavailable(cfg.HistoryDB, err)
	}

	if cfg.HistoryRetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.HistoryRetentionDays)
		res, err := database.Prune(ctx, cutoff)
		if err != nil {
			log.Warn("failed to prune render history", zap.Error(err))
		} else if res.Deleted > 0 {
			log.Info("pruned render history",
				zap.Int64("deleted", res.Deleted),
				zap.Int("retention_days", cfg.HistoryRetentionDays))
		}
	}

	h := &history{db: database, repo: db.NewRepository(database)}
	if async {
		h.writer = db.NewAsyncWriter(h.repo.WriteHandler(), db.DefaultQueueCapacity)
		h.writer.OnError(func(rec db.RenderRecord, err error) {
			log.Warn("failed to record render history", zap.String("hash", rec.Hash), zap.Error(err))
		})
		h.writer.Start()
		h.repo = h.repo.WithAsyncWriter(h.writer)
	}
	return h, nil
}

// Close drains queued inserts within ctx's deadline, then closes the database.
func (h *history) Close(ctx context.Context) error {
	if h == nil {
		return nil
	}
	if h.writer != nil {
		timeout := db.DefaultDrainTimeout
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if !h.writer.Close(timeout) {
			return fmt.Errorf("history writer did not drain (%d pending)", h.writer.Pending())
		}
	}
	return h.db.Close()
}

// printError writes err to stderr, with the suggested fix for config errors.
func (c *cli) printError(err error) {
	errLabel.Fprint(c.stderr, "error: ")
	if cfgErr, ok := core.IsConfigError(err); ok {
		fmt.Fprintln(c.stderr, cfgErr.Message)
		if cfgErr.Err != nil {
			dim.Fprintf(c.stderr, "       %v\n", cfgErr.Err)
		}
		if cfgErr.Action != "" {
			fmt.Fprintf(c.stderr, "       %s\n", cfgErr.Action)
		}
		return
	}
	fmt.Fprintln(c.stderr, err)
}

// printWarning writes a yellow warning line to stderr.
func (c *cli) printWarning(format string, args ...interface{}) {
	warnLabel.Fprint(c.stderr, "warning: ")
	fmt.Fprintf(c.stderr, format+"\n", args...)
}

// writeLine ignores write errors on the output stream; there is nowhere
// better to report them.
func writeLine(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
