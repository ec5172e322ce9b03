package render

import (
	"fmt"
	"strings"

	"hashart/sketch"
)

const (
	// DefaultSize is the default edge length in pixels.
	DefaultSize = 2048

	// MaxDimension caps either edge to keep memory use bounded
	// (16384^2 RGBA is 1 GiB).
	MaxDimension = 16384
)

// Format is an output file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatSVG:
		return f, nil
	case "":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Options controls output size and how the unit square is fitted into it.
type Options struct {
	Width  int
	Height int
	Fit    sketch.FitMode
}

// DefaultOptions returns a square DefaultSize render with contain fit.
func DefaultOptions() Options {
	return Options{
		Width:  DefaultSize,
		Height: DefaultSize,
		Fit:    sketch.FitContain,
	}
}

// Validate checks the dimensions.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 || o.Width > MaxDimension || o.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d (each edge must be 1..%d)", ErrInvalidDimensions, o.Width, o.Height, MaxDimension)
	}
	return nil
}

// Transform returns the viewport transform for these options.
func (o Options) Transform() sketch.Transform {
	return sketch.Viewport(float64(o.Width), float64(o.Height), o.Fit)
}

func checkScene(scene *sketch.Scene) error {
	if scene == nil {
		return ErrNilScene
	}
	for i, s := range scene.Shapes {
		if s.ColorIndex < 0 || s.ColorIndex >= len(scene.Palette) {
			return fmt.Errorf("%w: shape %d uses color %d", ErrInvalidColorIndex, i, s.ColorIndex)
		}
	}
	return nil
}
