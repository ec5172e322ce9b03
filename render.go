package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"hashart/core"
	"hashart/imagegen"
	"hashart/logging"
	"hashart/metrics"
	"hashart/random"
	"hashart/render"
	"hashart/shutdown"
)

// pipeline is everything render and batch share once flags are parsed.
type pipeline struct {
	cfg     *core.Config
	log     *logging.Logger
	mgr     *shutdown.Manager
	history *history
	writer  *imagegen.Writer
	opts    render.Options
	format  render.Format
}

// setup validates cfg and opens the logger, output directory and history.
// On failure it has already reported the problem and returns the exit code.
func (c *cli) setup(cfg *core.Config, asyncHistory bool) (*pipeline, int) {
	if err := cfg.Validate(); err != nil {
		c.printError(err)
		return nil, core.ExitCodeForError(err)
	}
	opts, format, err := cfg.RenderOptions()
	if err != nil {
		c.printError(err)
		return nil, core.ExitCodeUsage
	}

	log, err := c.newLogger(cfg)
	if err != nil {
		c.printError(err)
		return nil, core.ExitCodeError
	}
	p := &pipeline{cfg: cfg, log: log, opts: opts, format: format}
	p.mgr = newManager(log)
	p.mgr.Listen()

	p.writer, err = imagegen.NewWriter(cfg.OutputDir)
	if err != nil {
		err = core.ErrOutputDirUnwritable(cfg.OutputDir, err)
		c.printError(err)
		_ = p.mgr.Shutdown()
		return nil, core.ExitCodeForError(err)
	}
	p.mgr.OnShutdown("partial renders", shutdown.PriorityPartialFiles,
		shutdown.RemovePartialRenders(log.Zap(), cfg.OutputDir))

	p.history, err = openHistory(p.mgr.Context(), cfg, log, asyncHistory)
	if err != nil {
		// renders still work without history
		c.printWarning("%v", err)
		log.Warn("render history disabled", zap.Error(err))
	}
	if p.history != nil {
		p.mgr.OnShutdown("history", shutdown.PriorityHistory, p.history.Close)
	}
	return p, core.ExitCodeSuccess
}

func (p *pipeline) generator(opts ...imagegen.Option) (*imagegen.Generator, error) {
	if p.history != nil {
		opts = append(opts, imagegen.WithHistory(p.history.repo))
	}
	return imagegen.NewGenerator(imagegen.Config{
		Options:       p.opts,
		Format:        p.format,
		ThumbnailSize: p.cfg.ThumbnailSize,
	}, p.writer, p.log, opts...)
}

// finish runs shutdown and turns err into the exit code.
func (p *pipeline) finish(c *cli, err error) int {
	if shutdownErr := p.mgr.Shutdown(); shutdownErr != nil && err == nil {
		c.printWarning("%v", shutdownErr)
	}
	if err != nil && !p.mgr.Interrupted() {
		c.printError(err)
	}
	return p.mgr.ExitCode(err)
}

func runRender(c *cli, args []string) int {
	cfg, ok := c.loadConfig()
	if !ok {
		return core.ExitCodeUsage
	}
	fs := c.newFlagSet("render", "")
	bindSeedFlags(fs, cfg)
	bindOutputFlags(fs, cfg)
	if code, ok := parse(fs, args); !ok {
		return code
	}

	p, code := c.setup(cfg, false)
	if p == nil {
		return code
	}
	hash, source := cfg.ResolveSeed()
	p.log.Info("rendering", logging.SeedFields(hash, source)...)
	if source == core.SeedSourceRandom {
		c.printWarning("no -hash or -phrase given, using random hash %s", hash)
	}

	gen, err := p.generator()
	if err != nil {
		return p.finish(c, err)
	}

	var res *imagegen.Result
	err = p.mgr.Do(p.mgr.Context(), "render", func(ctx context.Context) error {
		r, genErr := gen.Generate(ctx, hash)
		res = r
		return genErr
	})
	if err == nil {
		okLabel.Fprint(c.stdout, "✓ ")
		writeLine(c.stdout, "%s %s", res.Path, dim.Sprintf("(%s, %s)", core.FormatBytes(res.Bytes), res.Duration.Round(time.Millisecond)))
		if res.ThumbnailPath != "" {
			writeLine(c.stdout, "  %s", res.ThumbnailPath)
		}
	}
	return p.finish(c, err)
}

func runBatch(c *cli, args []string) int {
	cfg, ok := c.loadConfig()
	if !ok {
		return core.ExitCodeUsage
	}
	fs := c.newFlagSet("batch", "[hash ...]")
	bindOutputFlags(fs, cfg)
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of parallel renders")
	count := fs.Int("n", 0, "also render this many random hashes")
	phrases := fs.String("phrases", "", "file of phrases, one per line (- for stdin)")
	hashes := fs.String("hashes", "", "file of hashes, one per line (- for stdin)")
	if code, ok := parse(fs, args); !ok {
		return code
	}

	jobs, err := collectHashes(fs.Args(), *hashes, *phrases, *count, os.Stdin)
	if err != nil {
		c.printError(err)
		return core.ExitCodeUsage
	}
	if len(jobs) == 0 {
		c.printError(fmt.Errorf("nothing to render: pass hashes, -hashes, -phrases or -n"))
		return core.ExitCodeUsage
	}

	p, code := c.setup(cfg, true)
	if p == nil {
		return code
	}

	store := metrics.NewStore(len(jobs))
	opts := []imagegen.Option{imagegen.WithMetrics(store)}
	if p.format == render.FormatPNG {
		pool, err := imagegen.NewCanvasPool(min(cfg.Workers, len(jobs)), p.opts.Width, p.opts.Height)
		if err != nil {
			return p.finish(c, err)
		}
		defer pool.Close()
		opts = append(opts, imagegen.WithPool(pool))
	}
	gen, err := p.generator(opts...)
	if err != nil {
		return p.finish(c, err)
	}

	p.log.Info("starting batch", zap.Int("renders", len(jobs)), zap.Int("workers", cfg.Workers))
	batch := imagegen.NewBatch(gen, cfg.Workers, p.mgr)
	var outMu sync.Mutex
	outcomes := batch.Run(p.mgr.Context(), jobs, func(o imagegen.Outcome) {
		outMu.Lock()
		defer outMu.Unlock()
		switch {
		case o.Err == nil:
			okLabel.Fprint(c.stdout, "✓ ")
			writeLine(c.stdout, "%s", o.Result.Path)
		case !o.Skipped():
			errLabel.Fprint(c.stdout, "✗ ")
			writeLine(c.stdout, "%s: %v", o.Hash, o.Err)
		}
	})

	summary := store.Summary()
	p.log.Info("batch finished", zap.Object("summary", summary))
	printBatchSummary(c.stdout, summary)

	var runErr error
	if failed := imagegen.Failed(outcomes); len(failed) > 0 {
		runErr = fmt.Errorf("%d of %d renders failed", len(failed), len(outcomes))
	}
	return p.finish(c, runErr)
}

func printBatchSummary(w io.Writer, s metrics.Summary) {
	writeLine(w, "")
	label := okLabel
	if s.Failed > 0 {
		label = errLabel
	} else if s.Skipped > 0 {
		label = warnLabel
	}
	label.Fprintf(w, "%d/%d rendered", s.Succeeded, s.Total)
	if s.Failed > 0 {
		fmt.Fprintf(w, ", %d failed", s.Failed)
	}
	if s.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", s.Skipped)
	}
	writeLine(w, " in %s (%.1f/s, %s)", s.Elapsed.Round(time.Millisecond), s.Throughput(), core.FormatBytes(s.Bytes))
}

// collectHashes gathers batch inputs in a stable order: positional hashes,
// then the hashes file, then phrases, then random hashes. Invalid hashes
// are reported up front rather than as render failures.
func collectHashes(args []string, hashFile, phraseFile string, n int, stdin io.Reader) ([]string, error) {
	if n < 0 {
		return nil, core.ErrInvalidCount("-n", n, 0)
	}
	if hashFile == "-" && phraseFile == "-" {
		return nil, fmt.Errorf("only one of -hashes and -phrases can read stdin")
	}

	out := append([]string(nil), args...)
	if hashFile != "" {
		lines, err := readLines(hashFile, stdin)
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}
	for _, h := range out {
		if _, err := random.DecodeSeed(h); err != nil {
			return nil, core.ErrInvalidSeed(h, err)
		}
	}

	if phraseFile != "" {
		lines, err := readLines(phraseFile, stdin)
		if err != nil {
			return nil, err
		}
		for _, phrase := range lines {
			out = append(out, random.HashFromPhrase(phrase))
		}
	}
	for i := 0; i < n; i++ {
		out = append(out, random.RandomHash())
	}
	return out, nil
}

// readLines returns the non-blank, non-comment lines of path ("-" is stdin).
func readLines(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}
