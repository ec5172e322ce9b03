package sketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewport(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		mode FitMode
		want Transform
	}{
		{"square contain", 800, 800, FitContain, Transform{Scale: 800}},
		{"square cover", 800, 800, FitCover, Transform{Scale: 800}},
		{"landscape contain", 1200, 800, FitContain, Transform{Scale: 800, TX: 200}},
		{"landscape cover", 1200, 800, FitCover, Transform{Scale: 1200, TY: -200}},
		{"portrait contain", 600, 1000, FitContain, Transform{Scale: 600, TY: 200}},
		{"portrait cover", 600, 1000, FitCover, Transform{Scale: 1000, TX: -200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Viewport(tt.w, tt.h, tt.mode))
		})
	}
}

func TestTransform_Apply(t *testing.T) {
	tr := Viewport(1200, 800, FitContain)
	x, y := tr.Apply(0.5, 0.5)
	assert.Equal(t, 600.0, x)
	assert.Equal(t, 400.0, y)

	x, y = tr.Apply(0, 1)
	assert.Equal(t, 200.0, x)
	assert.Equal(t, 800.0, y)

	assert.Equal(t, 8.0, tr.Length(0.01))
}

func TestParseFitMode(t *testing.T) {
	for in, want := range map[string]FitMode{"": FitContain, "contain": FitContain, " Cover ": FitCover} {
		got, err := ParseFitMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFitMode("stretch")
	assert.Error(t, err)

	assert.Equal(t, "contain", FitContain.String())
	assert.Equal(t, "cover", FitCover.String())
	assert.Equal(t, "unknown", FitMode(9).String())
}
