// Package metrics keeps in-memory statistics about the renders produced by
// a single command run: totals, per-format averages and a short history.
package metrics

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// Render outcome values for RenderRecord.Status.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped" // never started because shutdown was requested
)

// RenderRecord describes one attempted render.
type RenderRecord struct {
	Hash     string        `json:"hash"`
	Format   string        `json:"format"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Bytes    int64         `json:"bytes"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration"`
	ErrorMsg string        `json:"error,omitempty"`
	At       time.Time     `json:"at"`
}

// FormatSummary aggregates successful renders of one output format.
type FormatSummary struct {
	Count       int64         `json:"count"`
	Bytes       int64         `json:"bytes"`
	AvgDuration time.Duration `json:"avg_duration"`
	MinDuration time.Duration `json:"min_duration"`
	MaxDuration time.Duration `json:"max_duration"`
}

// Summary is a point-in-time view over everything recorded so far.
type Summary struct {
	Total     int64                     `json:"total"`
	Succeeded int64                     `json:"succeeded"`
	Failed    int64                     `json:"failed"`
	Skipped   int64                     `json:"skipped"`
	Bytes     int64                     `json:"bytes"`
	Elapsed   time.Duration             `json:"elapsed"`
	ByFormat  map[string]*FormatSummary `json:"by_format"`
}

// Throughput is successful renders per second of wall time.
func (s Summary) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Succeeded) / s.Elapsed.Seconds()
}

// MarshalLogObject lets a Summary be logged with zap.Object.
func (s Summary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt64("total", s.Total)
	enc.AddInt64("succeeded", s.Succeeded)
	enc.AddInt64("failed", s.Failed)
	if s.Skipped > 0 {
		enc.AddInt64("skipped", s.Skipped)
	}
	enc.AddInt64("bytes", s.Bytes)
	enc.AddInt64("elapsed_ms", s.Elapsed.Milliseconds())
	enc.AddFloat64("per_second", s.Throughput())
	return nil
}
