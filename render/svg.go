package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"hashart/sketch"
)

// svgUnits is the number of viewBox units per output pixel. svgo works in
// integers, so coordinates are written at 1/100 px precision.
const svgUnits = 100

// WriteSVG writes scene as an SVG document of the given pixel size.
// Shapes are emitted in generation order so paint order matches Rasterize.
func WriteSVG(w io.Writer, scene *sketch.Scene, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := checkScene(scene); err != nil {
		return err
	}

	cw := &errWriter{w: w}
	canvas := svg.New(cw)
	vw, vh := opts.Width*svgUnits, opts.Height*svgUnits
	canvas.Startview(opts.Width, opts.Height, 0, 0, vw, vh)
	if scene.Hash != "" {
		canvas.Title(scene.Hash)
	}
	canvas.Rect(0, 0, vw, vh, "fill:"+scene.Background.Hex())

	fills := [2]string{"fill:" + scene.Palette[0].Hex(), "fill:" + scene.Palette[1].Hex()}
	tr := opts.Transform()
	for _, s := range scene.Shapes {
		r := svgCoord(tr.Length(s.Radius))
		if r <= 0 {
			continue
		}
		x, y := tr.Apply(s.X, s.Y)
		canvas.Circle(svgCoord(x), svgCoord(y), r, fills[s.ColorIndex])
	}
	canvas.End()

	if cw.err != nil {
		return fmt.Errorf("failed to write SVG: %w", cw.err)
	}
	return nil
}

func svgCoord(v float64) int {
	return int(math.Round(v * svgUnits))
}

// errWriter remembers the first write error, since svgo ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
