package imagegen

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"time"

	"go.uber.org/zap"

	"hashart/db"
	"hashart/logging"
	"hashart/metrics"
	"hashart/render"
	"hashart/sketch"
)

// ThumbnailSuffix is appended to the hash for thumbnail files.
const ThumbnailSuffix = ".thumb"

// Config controls what a Generator produces.
type Config struct {
	Options       render.Options
	Format        render.Format
	ThumbnailSize int // 0 disables thumbnails
}

// DefaultConfig renders a DefaultSize PNG with a 256px thumbnail.
func DefaultConfig() Config {
	return Config{
		Options:       render.DefaultOptions(),
		Format:        render.FormatPNG,
		ThumbnailSize: 256,
	}
}

// Result describes the files written for one hash.
type Result struct {
	Hash          string
	Path          string
	ThumbnailPath string
	Bytes         int64
	Shapes        int
	Duration      time.Duration
	HistoryID     string
}

// Generator runs the seed to file pipeline. It is safe for concurrent use;
// rasterizing draws canvases from an optional CanvasPool.
type Generator struct {
	cfg     Config
	writer  *Writer
	pool    *CanvasPool
	history *db.Repository
	metrics metrics.Collector
	logger  *logging.Logger
	now     func() time.Time
}

// Option customises a Generator.
type Option func(*Generator)

// WithPool rasterizes PNGs on pooled canvases.
func WithPool(pool *CanvasPool) Option {
	return func(g *Generator) { g.pool = pool }
}

// WithHistory records every successful render in repo.
func WithHistory(repo *db.Repository) Option {
	return func(g *Generator) { g.history = repo }
}

// WithMetrics reports outcomes to c.
func WithMetrics(c metrics.Collector) Option {
	return func(g *Generator) {
		if c != nil {
			g.metrics = c
		}
	}
}

// NewGenerator validates cfg and returns a Generator writing through w.
func NewGenerator(cfg Config, w *Writer, logger *logging.Logger, opts ...Option) (*Generator, error) {
	if w == nil {
		return nil, fmt.Errorf("imagegen: writer cannot be nil")
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}
	if cfg.Format == "" {
		cfg.Format = render.FormatPNG
	}
	if _, err := render.ParseFormat(string(cfg.Format)); err != nil {
		return nil, err
	}
	if cfg.ThumbnailSize < 0 {
		cfg.ThumbnailSize = 0
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	g := &Generator{
		cfg:     cfg,
		writer:  w,
		metrics: metrics.Nop{},
		logger:  logger.Named("generator"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Config returns the effective configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate renders hash and writes <hash><ext>, plus <hash>.thumb.png when
// thumbnails are enabled. A history failure is logged but does not fail
// the render; the files are already on disk.
func (g *Generator) Generate(ctx context.Context, hash string) (*Result, error) {
	start := g.now()
	res, err := g.generate(ctx, hash)
	elapsed := g.now().Sub(start)

	rec := metrics.RenderRecord{
		Hash:     hash,
		Format:   string(g.cfg.Format),
		Width:    g.cfg.Options.Width,
		Height:   g.cfg.Options.Height,
		Duration: elapsed,
		At:       start,
	}
	if err != nil {
		rec.Status = metrics.StatusFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			rec.Status = metrics.StatusSkipped
		}
		rec.ErrorMsg = err.Error()
		g.metrics.Record(rec)
		g.logger.Warn("render failed", zap.String("hash", hash), zap.Error(err))
		return nil, err
	}

	res.Duration = elapsed
	rec.Status = metrics.StatusOK
	rec.Bytes = res.Bytes
	g.metrics.Record(rec)

	res.HistoryID = g.recordHistory(ctx, res)

	g.logger.Info("render complete", logging.RenderFields(logging.RenderStats{
		Hash:     res.Hash,
		Format:   string(g.cfg.Format),
		Width:    g.cfg.Options.Width,
		Height:   g.cfg.Options.Height,
		Shapes:   res.Shapes,
		Bytes:    int(res.Bytes),
		Path:     res.Path,
		Duration: elapsed,
	}))
	return res, nil
}

// skipped records a hash that was never attempted.
func (g *Generator) skipped(hash string, err error) {
	g.metrics.Record(metrics.RenderRecord{
		Hash:     hash,
		Format:   string(g.cfg.Format),
		Width:    g.cfg.Options.Width,
		Height:   g.cfg.Options.Height,
		Status:   metrics.StatusSkipped,
		ErrorMsg: err.Error(),
		At:       g.now(),
	})
}

func (g *Generator) generate(ctx context.Context, hash string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scene, err := sketch.Generate(hash)
	if err != nil {
		return nil, fmt.Errorf("imagegen: %w", err)
	}
	res := &Result{Hash: hash, Shapes: len(scene.Shapes)}

	switch g.cfg.Format {
	case render.FormatSVG:
		err = g.writeSVG(scene, res)
	default:
		err = g.writePNG(ctx, scene, res)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Generator) writePNG(ctx context.Context, scene *sketch.Scene, res *Result) error {
	save := func(img *image.RGBA) error {
		data, err := render.EncodePNG(img)
		if err != nil {
			return err
		}
		res.Path, res.Bytes, err = g.writer.WriteBytes(scene.Hash, render.FormatPNG.Extension(), data)
		if err != nil {
			return err
		}
		return g.writeThumbnail(scene, img, res)
	}

	if g.pool != nil {
		return g.pool.Rasterize(ctx, scene, g.cfg.Options, save)
	}
	img, err := render.Rasterize(scene, g.cfg.Options)
	if err != nil {
		return err
	}
	return save(img)
}

func (g *Generator) writeSVG(scene *sketch.Scene, res *Result) error {
	var err error
	res.Path, res.Bytes, err = g.writer.WriteFile(scene.Hash, render.FormatSVG.Extension(), func(w io.Writer) error {
		return render.WriteSVG(w, scene, g.cfg.Options)
	})
	if err != nil {
		return err
	}
	if g.cfg.ThumbnailSize == 0 {
		return nil
	}

	// Rasterize straight at thumbnail scale rather than at full size.
	opts := g.cfg.Options
	scale := float64(g.cfg.ThumbnailSize) / float64(max(opts.Width, opts.Height))
	opts.Width = max(1, int(math.Round(float64(opts.Width)*scale)))
	opts.Height = max(1, int(math.Round(float64(opts.Height)*scale)))
	img, err := render.Rasterize(scene, opts)
	if err != nil {
		return err
	}
	return g.writeThumbnail(scene, img, res)
}

func (g *Generator) writeThumbnail(scene *sketch.Scene, img image.Image, res *Result) error {
	if g.cfg.ThumbnailSize == 0 {
		return nil
	}
	thumb := render.Thumbnail(img, g.cfg.ThumbnailSize, scene.Background)
	data, err := render.EncodePNG(thumb)
	if err != nil {
		return fmt.Errorf("imagegen: thumbnail: %w", err)
	}
	res.ThumbnailPath, _, err = g.writer.WriteBytes(scene.Hash+ThumbnailSuffix, render.FormatPNG.Extension(), data)
	return err
}

func (g *Generator) recordHistory(ctx context.Context, res *Result) string {
	if g.history == nil {
		return ""
	}
	id, err := g.history.InsertRender(ctx, db.RenderRecord{
		Hash:       res.Hash,
		Format:     string(g.cfg.Format),
		Width:      g.cfg.Options.Width,
		Height:     g.cfg.Options.Height,
		Fit:        g.cfg.Options.Fit.String(),
		ShapeCount: res.Shapes,
		OutputPath: res.Path,
		DurationMS: res.Duration.Milliseconds(),
	})
	if err != nil {
		g.logger.Warn("failed to record render history", zap.String("hash", res.Hash), zap.Error(err))
		return ""
	}
	return id
}
