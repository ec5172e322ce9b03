// Package sketch turns a seed into the ordered description of an artwork:
// a background, a two color palette and 450 dots.
//
// The scene is a pure function of the seed. Every random value comes from
// one random.Generator, consumed in a fixed order, so the same hash always
// yields the same scene in any implementation of the generator.
package sketch

import (
	"math"

	"hashart/lch"
	"hashart/random"
)

const (
	// ShapeCount is the number of dots in every scene.
	ShapeCount = 450

	// Margin is the fraction of the square left empty on each side.
	Margin = 0.15

	// RadiusDeviation is the standard deviation of dot radii, as a fraction
	// of the square's side.
	RadiusDeviation = 0.01
)

// Palette recipes. Only the hues are drawn from the generator.
const (
	primaryLightness   = 50
	primaryChroma      = 50
	secondaryLightness = 100
	secondaryChroma    = 70
)

// Background is constant and consumes no draws.
var Background = lch.New(95, 0, 0)

// Shape is one filled dot. Coordinates and radius are fractions of the
// drawable square's side.
type Shape struct {
	X          float64 `json:"x" yaml:"x"`
	Y          float64 `json:"y" yaml:"y"`
	Radius     float64 `json:"radius" yaml:"radius"`
	ColorIndex int     `json:"color" yaml:"color"`
}

// Scene is the complete, order-sensitive artifact handed to renderers.
// Shapes are in generation order, which is also paint order.
type Scene struct {
	Hash       string       `json:"hash" yaml:"hash"`
	Background lch.Color    `json:"background" yaml:"background"`
	Palette    [2]lch.Color `json:"palette" yaml:"palette"`
	Shapes     []Shape      `json:"shapes" yaml:"shapes"`
}

// Color resolves the palette entry a shape refers to.
func (s *Scene) Color(shape Shape) lch.Color {
	return s.Palette[shape.ColorIndex]
}

// Generate builds the scene for seed using a fresh generator.
// Malformed seeds fail with a *random.InvalidSeedError.
//
// Example:
//
//	scene, err := Generate("0x1111111111111111111111111111111111111111111111111111111111111111")
//	if err != nil {
//	    return err
//	}
//	first := scene.Shapes[0]
func Generate(seed string) (*Scene, error) {
	g, err := random.NewFromSeed(seed)
	if err != nil {
		return nil, err
	}
	scene := GenerateFrom(g)
	scene.Hash = seed
	return scene, nil
}

// GenerateFrom builds a scene from g, advancing it. The draw order is:
// primary hue, secondary hue, then x, y, radius and color for each shape.
func GenerateFrom(g *random.Generator) *Scene {
	scene := &Scene{
		Background: Background,
		Shapes:     make([]Shape, 0, ShapeCount),
	}
	scene.Palette[0] = lch.New(primaryLightness, primaryChroma, g.Range(180, 360))
	scene.Palette[1] = lch.New(secondaryLightness, secondaryChroma, g.Range(0, 180))

	indices := []int{0, 1}
	for i := 0; i < ShapeCount; i++ {
		var shape Shape
		shape.X = g.Range(Margin, 1-Margin)
		shape.Y = g.Range(Margin, 1-Margin)
		shape.Radius = math.Abs(g.Gaussian(0, RadiusDeviation))
		shape.ColorIndex, _ = random.Pick(g, indices)
		scene.Shapes = append(scene.Shapes, shape)
	}
	return scene
}
