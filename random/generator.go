package random

import "math"

// twoPow32 converts a uint32 word into a float in [0, 1).
const twoPow32 = 4294967296.0

// Generator is a seeded xorshift128 pseudo-random generator with a set of
// derived distributions.
//
// The output stream is bit-for-bit reproducible from the seed: all state
// arithmetic is done on uint32 words, which wrap exactly like the 32 bit
// typed arrays other implementations of the same generator use.
//
// A Generator is not safe for concurrent use. Give each render its own.
type Generator struct {
	state State

	// spare Gaussian sample left over from the last polar method pair
	pendingGaussian    float64
	hasPendingGaussian bool
}

// New creates a Generator from already decoded state.
func New(state State) *Generator {
	return &Generator{state: state}
}

// NewFromSeed decodes seed and returns a fresh Generator.
//
// Example:
//
//	g, err := NewFromSeed("0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
//	if err != nil {
//	    return err
//	}
//	hue := g.Range(180, 360)
func NewFromSeed(seed string) (*Generator, error) {
	state, err := DecodeSeed(seed)
	if err != nil {
		return nil, err
	}
	return New(state), nil
}

// State returns a copy of the current generator words.
func (g *Generator) State() State {
	return g.state
}

// Value advances the generator and returns a uniform float in [0, 1).
//
// Algorithm "xor128" from Marsaglia, "Xorshift RNGs", p. 5.
func (g *Generator) Value() float64 {
	t := g.state[3]
	s := g.state[0]
	g.state[3] = g.state[2]
	g.state[2] = g.state[1]
	g.state[1] = s
	t ^= t << 11
	t ^= t >> 8
	g.state[0] = t ^ s ^ (s >> 19)
	return float64(g.state[0]) / twoPow32
}

// Chance returns true with probability p.
func (g *Generator) Chance(p float64) bool {
	return g.Value() < p
}

// Bool is a fair coin flip, Chance(0.5).
func (g *Generator) Bool() bool {
	return g.Chance(0.5)
}

// Range returns a uniform float in [min, max).
//
// The explicit float64 conversion keeps the compiler from fusing the
// multiply and add, which would change results on FMA hardware.
func (g *Generator) Range(min, max float64) float64 {
	return float64(g.Value()*(max-min)) + min
}

// RangeFloor returns floor(Range(min, max)).
func (g *Generator) RangeFloor(min, max float64) int {
	return int(math.Floor(g.Range(min, max)))
}

// Weighted picks an index with probability proportional to its weight.
// Weights need not be normalized. If rounding leaves no index selected,
// index 0 is returned.
func (g *Generator) Weighted(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}

	r := g.Value() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return 0
}

// InsideCircle returns a point uniformly distributed over the area of a
// disk of the given radius centred on the origin.
func (g *Generator) InsideCircle(radius float64) (x, y float64) {
	theta := g.Value() * 2 * math.Pi
	r := radius * math.Sqrt(g.Value())
	return r * math.Cos(theta), r * math.Sin(theta)
}

// InsideUnitCircle is InsideCircle(1).
func (g *Generator) InsideUnitCircle() (x, y float64) {
	return g.InsideCircle(1)
}

// Gaussian returns a normally distributed sample using the Marsaglia polar
// method. Samples are produced in pairs; the second one is cached and
// returned by the next call without consuming any draws.
func (g *Generator) Gaussian(mean, sd float64) float64 {
	if g.hasPendingGaussian {
		g.hasPendingGaussian = false
		spare := g.pendingGaussian
		g.pendingGaussian = 0
		return mean + float64(sd*spare)
	}

	var v1, v2, s float64
	for {
		v1 = g.Value()*2 - 1
		v2 = g.Value()*2 - 1
		s = float64(v1*v1) + float64(v2*v2)
		if s < 1 && s != 0 {
			break
		}
	}
	multiplier := math.Sqrt(-2 * math.Log(s) / s)
	g.pendingGaussian = v2 * multiplier
	g.hasPendingGaussian = true
	return mean + float64(sd*(v1*multiplier))
}

// StandardNormal is Gaussian(0, 1).
func (g *Generator) StandardNormal() float64 {
	return g.Gaussian(0, 1)
}

// Pick returns a uniformly chosen element of items. An empty slice yields
// the zero value and false without advancing the generator.
func Pick[T any](g *Generator, items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[g.RangeFloor(0, float64(len(items)))], true
}

// Shuffle returns a Fisher-Yates permutation of items. The input slice is
// left untouched.
func Shuffle[T any](g *Generator, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for n := len(out); n > 0; {
		j := int(g.Value() * float64(n))
		n--
		out[n], out[j] = out[j], out[n]
	}
	return out
}
