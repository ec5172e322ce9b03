package sketch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"hashart/lch"
)

// ErrMalformedScene is returned when a decoded scene is structurally wrong.
var ErrMalformedScene = errors.New("sketch: malformed scene description")

// ExportColor is a palette entry as written to scene descriptions: the
// LCH triple plus its CSS form and the clipped sRGB value, so consumers
// without a color library can still draw it.
type ExportColor struct {
	lch.Color `yaml:",inline"`
	CSS       string `json:"css" yaml:"css"`
	Hex       string `json:"hex" yaml:"hex"`
}

// Description is the serialized form of a Scene.
type Description struct {
	Hash       string        `json:"hash" yaml:"hash"`
	Margin     float64       `json:"margin" yaml:"margin"`
	Background ExportColor   `json:"background" yaml:"background"`
	Palette    []ExportColor `json:"palette" yaml:"palette"`
	Shapes     []Shape       `json:"shapes" yaml:"shapes"`
}

func exportColor(c lch.Color) ExportColor {
	return ExportColor{Color: c, CSS: c.String(), Hex: c.Hex()}
}

// Describe converts a scene into its export form.
func Describe(scene *Scene) Description {
	return Description{
		Hash:       scene.Hash,
		Margin:     Margin,
		Background: exportColor(scene.Background),
		Palette:    []ExportColor{exportColor(scene.Palette[0]), exportColor(scene.Palette[1])},
		Shapes:     scene.Shapes,
	}
}

// Scene converts a description back into a scene, checking that palette
// references are in range.
func (d Description) Scene() (*Scene, error) {
	if len(d.Palette) != 2 {
		return nil, fmt.Errorf("%w: palette has %d colors, want 2", ErrMalformedScene, len(d.Palette))
	}
	scene := &Scene{
		Hash:       d.Hash,
		Background: d.Background.Color,
		Palette:    [2]lch.Color{d.Palette[0].Color, d.Palette[1].Color},
		Shapes:     d.Shapes,
	}
	for i, s := range scene.Shapes {
		if s.ColorIndex < 0 || s.ColorIndex > 1 {
			return nil, fmt.Errorf("%w: shape %d references color %d", ErrMalformedScene, i, s.ColorIndex)
		}
	}
	return scene, nil
}

// EncodeJSON writes the scene description as indented JSON.
func EncodeJSON(w io.Writer, scene *Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Describe(scene)); err != nil {
		return fmt.Errorf("failed to encode scene as JSON: %w", err)
	}
	return nil
}

// EncodeYAML writes the scene description as YAML.
func EncodeYAML(w io.Writer, scene *Scene) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Describe(scene)); err != nil {
		return fmt.Errorf("failed to encode scene as YAML: %w", err)
	}
	return enc.Close()
}

// DecodeYAML reads a scene description written by EncodeYAML.
func DecodeYAML(r io.Reader) (*Scene, error) {
	var d Description
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode scene YAML: %w", err)
	}
	return d.Scene()
}
