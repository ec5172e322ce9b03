package sketch

import (
	"fmt"
	"strings"
)

// FitMode decides how the unit square maps onto a non-square viewport.
type FitMode int

const (
	// FitContain scales the square to the viewport's shorter side, so the
	// whole artwork is visible and letterboxed.
	FitContain FitMode = iota

	// FitCover scales the square to the longer side, filling the viewport
	// and cropping the overflow.
	FitCover
)

// String returns the name used in configuration.
func (m FitMode) String() string {
	switch m {
	case FitContain:
		return "contain"
	case FitCover:
		return "cover"
	default:
		return "unknown"
	}
}

// ParseFitMode parses "contain" or "cover" (case-insensitive).
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "contain":
		return FitContain, nil
	case "cover":
		return FitCover, nil
	default:
		return FitContain, fmt.Errorf("sketch: unknown fit mode %q (want contain or cover)", s)
	}
}

// Transform maps unit square coordinates to viewport pixels.
type Transform struct {
	Scale float64
	TX    float64
	TY    float64
}

// Viewport computes the transform for a width x height viewport. The square
// is always centred.
func Viewport(width, height float64, mode FitMode) Transform {
	scale := width
	if mode == FitContain {
		if width/height > 1 {
			scale = height
		}
	} else if width/height < 1 {
		scale = height
	}
	return Transform{
		Scale: scale,
		TX:    (width - scale) * 0.5,
		TY:    (height - scale) * 0.5,
	}
}

// Apply maps a point from the unit square into the viewport.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.TX + x*t.Scale, t.TY + y*t.Scale
}

// Length scales a distance, such as a radius.
func (t Transform) Length(d float64) float64 {
	return d * t.Scale
}
