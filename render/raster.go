package render

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"hashart/sketch"
)

// kappa places cubic Bézier control points so four curves approximate a
// circle to within 0.03% of the radius.
const kappa = 0.5522847498307936

// Rasterize paints scene into a new RGBA image.
//
// The background fills the whole image. Shapes are painted in generation
// order as anti-aliased disks, so later shapes cover earlier ones exactly
// as they would on a canvas.
func Rasterize(scene *sketch.Scene, opts Options) (*image.RGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	if err := RasterizeInto(img, scene, opts); err != nil {
		return nil, err
	}
	return img, nil
}

// RasterizeInto is Rasterize into a caller-owned image, which must be
// exactly opts.Width x opts.Height. Every pixel is overwritten, so dst can
// be reused between renders.
func RasterizeInto(dst *image.RGBA, scene *sketch.Scene, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if dst == nil || dst.Bounds().Dx() != opts.Width || dst.Bounds().Dy() != opts.Height {
		return fmt.Errorf("%w: destination does not match %dx%d", ErrInvalidDimensions, opts.Width, opts.Height)
	}
	if err := checkScene(scene); err != nil {
		return err
	}

	draw.Draw(dst, dst.Bounds(), image.NewUniform(scene.Background), dst.Bounds().Min, draw.Src)

	tr := opts.Transform()
	off := dst.Bounds().Min
	p := &diskPainter{z: vector.NewRasterizer(0, 0)}
	for _, s := range scene.Shapes {
		cx, cy := tr.Apply(s.X, s.Y)
		p.paint(dst, cx+float64(off.X), cy+float64(off.Y), tr.Length(s.Radius), image.NewUniform(scene.Color(s)))
	}
	return nil
}

// diskPainter rasterizes one disk at a time into a coverage mask the size
// of the disk's bounding box, then composites it with DrawMask so clipping
// against the destination is handled by image/draw.
type diskPainter struct {
	z   *vector.Rasterizer
	buf []byte
}

func (p *diskPainter) paint(dst *image.RGBA, cx, cy, r float64, src image.Image) {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return
	}

	box := image.Rect(
		int(math.Floor(cx-r)), int(math.Floor(cy-r)),
		int(math.Ceil(cx+r)), int(math.Ceil(cy+r)),
	)
	if !box.Overlaps(dst.Bounds()) {
		return
	}

	w, h := box.Dx(), box.Dy()
	p.z.Reset(w, h)
	circlePath(p.z, float32(cx-float64(box.Min.X)), float32(cy-float64(box.Min.Y)), float32(r))

	// The rasterizer's fast path writes Pix contiguously, so the mask stride
	// must equal its width.
	if cap(p.buf) < w*h {
		p.buf = make([]byte, w*h)
	}
	pix := p.buf[:w*h]
	clear(pix)
	m := &image.Alpha{Pix: pix, Stride: w, Rect: image.Rect(0, 0, w, h)}
	p.z.Draw(m, m.Bounds(), image.Opaque, image.Point{})

	draw.DrawMask(dst, box, src, image.Point{}, m, image.Point{}, draw.Over)
}

// circlePath adds a closed circle of radius r centred on (cx, cy).
func circlePath(z *vector.Rasterizer, cx, cy, r float32) {
	k := float32(kappa) * r
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}
