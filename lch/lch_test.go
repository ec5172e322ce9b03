package lch

import (
	"image/color"
	"testing"
)

func TestColor_String(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{New(95, 0, 0), "lch(95% 0 0)"},
		{New(50, 50, 275.5), "lch(50% 50 275.5)"},
		{New(100, 70, 12.25), "lch(100% 70 12.25)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestColor_GreyAxis(t *testing.T) {
	// Zero chroma is neutral grey regardless of hue
	for _, h := range []float64{0, 90, 275} {
		c := New(95, 0, h).NRGBA()
		if c.R != c.G || c.G != c.B {
			t.Errorf("hue %v: expected neutral grey, got %+v", h, c)
		}
		if c.R < 230 || c.A != 0xff {
			t.Errorf("hue %v: L=95 should be near white and opaque, got %+v", h, c)
		}
	}
}

func TestColor_Extremes(t *testing.T) {
	if got := New(0, 0, 0).NRGBA(); got != (color.NRGBA{0, 0, 0, 0xff}) {
		t.Errorf("black = %+v", got)
	}
	if got := New(100, 0, 0).NRGBA(); got != (color.NRGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("white = %+v", got)
	}
}

func TestColor_Gamut(t *testing.T) {
	if !New(50, 10, 200).InGamut() {
		t.Error("low chroma mid grey-blue should be in gamut")
	}
	// Full lightness with chroma 70 is brighter than white can be
	if New(100, 70, 60).InGamut() {
		t.Error("L=100 C=70 should be out of gamut")
	}
	// Out of gamut colors are still rendered, clipped
	c := New(100, 70, 60).SRGB()
	if !c.IsValid() {
		t.Errorf("SRGB() should clamp into gamut, got %+v", c)
	}
}

func TestColor_HueWraps(t *testing.T) {
	a := New(60, 40, 30).Hex()
	if b := New(60, 40, 390).Hex(); a != b {
		t.Errorf("hue 390 = %s, want same as hue 30 = %s", b, a)
	}
	if b := New(60, 40, -330).Hex(); a != b {
		t.Errorf("hue -330 = %s, want same as hue 30 = %s", b, a)
	}
}

func TestColor_ImplementsColor(t *testing.T) {
	var c color.Color = New(50, 50, 270)
	_, _, _, a := c.RGBA()
	if a != 0xffff {
		t.Errorf("alpha = %#x, want opaque", a)
	}
}
