package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RenderStats describes one finished render. Implements
// zapcore.ObjectMarshaler so it logs as a nested object.
type RenderStats struct {
	Hash     string
	Format   string
	Width    int
	Height   int
	Shapes   int
	Bytes    int
	Path     string
	Duration time.Duration
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
// Duration is encoded in milliseconds.
func (s RenderStats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("hash", s.Hash)
	enc.AddString("format", s.Format)
	enc.AddInt("width", s.Width)
	enc.AddInt("height", s.Height)
	enc.AddInt("shapes", s.Shapes)
	enc.AddInt("bytes", s.Bytes)
	if s.Path != "" {
		enc.AddString("path", s.Path)
	}
	enc.AddInt64("duration_ms", s.Duration.Milliseconds())
	return nil
}

// RenderFields wraps stats in a zap field.
//
// Example:
//
//	logger.Info("render complete", logging.RenderFields(stats))
func RenderFields(stats RenderStats) zap.Field {
	return zap.Object("render", stats)
}

// SeedFields describes where a seed came from. Random seeds are flagged so
// a non-reproducible render is obvious in the logs.
func SeedFields(hash, source string) []zap.Field {
	return []zap.Field{
		zap.String("hash", hash),
		zap.String("seed_source", source),
		zap.Bool("reproducible", source != "random"),
	}
}
