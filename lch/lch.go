// Package lch holds the perceptual Lightness-Chroma-Hue colors that scenes
// are described in, and converts them to display sRGB.
package lch

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a CIE LCh(ab) color.
//
// L is lightness in [0, 100], C is chroma (0 is grey, ~130 is the most
// saturated sRGB can show) and H is hue in degrees.
type Color struct {
	L float64 `json:"l" yaml:"l"`
	C float64 `json:"c" yaml:"c"`
	H float64 `json:"h" yaml:"h"`
}

// New returns the color with the given lightness, chroma and hue.
func New(l, c, h float64) Color {
	return Color{L: l, C: c, H: h}
}

// Colorful converts to go-colorful's representation without clamping.
// go-colorful expects lightness and chroma scaled to [0, 1].
func (c Color) Colorful() colorful.Color {
	return colorful.Hcl(normalizeHue(c.H), c.C/100, c.L/100)
}

// InGamut reports whether the color is representable in sRGB without
// clipping.
func (c Color) InGamut() bool {
	return c.Colorful().IsValid()
}

// SRGB returns the display color, clipped into the sRGB gamut.
func (c Color) SRGB() colorful.Color {
	return c.Colorful().Clamped()
}

// NRGBA returns the clipped display color as an opaque 8 bit color.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.SRGB().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Hex returns the clipped display color as "#rrggbb".
func (c Color) Hex() string {
	return c.SRGB().Hex()
}

// String formats the color as a CSS Color 4 lch() value.
func (c Color) String() string {
	return fmt.Sprintf("lch(%s%% %s %s)", formatFloat(c.L), formatFloat(c.C), formatFloat(c.H))
}

func normalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
