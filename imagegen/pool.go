package imagegen

import (
	"context"
	"fmt"
	"image"
	"sync"

	"hashart/render"
	"hashart/sketch"
)

// CanvasPool hands out reusable RGBA canvases of one fixed size so a batch
// never holds more than maxSize full-resolution images at once. Canvases
// are created lazily on first Acquire.
type CanvasPool struct {
	mu       sync.Mutex
	canvases chan *image.RGBA
	maxSize  int
	width    int
	height   int
	created  int
	closed   bool
}

// NewCanvasPool returns a pool of at most maxSize width x height canvases.
func NewCanvasPool(maxSize, width, height int) (*CanvasPool, error) {
	if maxSize <= 0 {
		return nil, ErrInvalidPoolSize
	}
	if err := (render.Options{Width: width, Height: height}).Validate(); err != nil {
		return nil, err
	}
	return &CanvasPool{
		canvases: make(chan *image.RGBA, maxSize),
		maxSize:  maxSize,
		width:    width,
		height:   height,
	}, nil
}

// Acquire returns an idle canvas, allocates a new one while under
// capacity, or waits for a Release. Contents are whatever the previous
// user left behind.
func (p *CanvasPool) Acquire(ctx context.Context) (*image.RGBA, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}

	select {
	case img := <-p.canvases:
		p.mu.Unlock()
		return img, nil
	default:
	}

	if p.created < p.maxSize {
		p.created++
		p.mu.Unlock()
		return image.NewRGBA(image.Rect(0, 0, p.width, p.height)), nil
	}
	p.mu.Unlock()

	select {
	case img, ok := <-p.canvases:
		if !ok {
			return nil, ErrPoolClosed
		}
		return img, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrAcquireTimeout, ctx.Err())
	}
}

// Release gives img back. Canvases of the wrong size are ignored and ones
// released after Close are dropped. Passing nil is a no-op.
func (p *CanvasPool) Release(img *image.RGBA) {
	if img == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if b := img.Bounds(); b.Dx() != p.width || b.Dy() != p.height {
		return
	}
	if p.closed {
		p.created--
		return
	}

	select {
	case p.canvases <- img:
	default:
		p.created--
	}
}

// Rasterize paints scene onto a pooled canvas and hands it to fn. The
// canvas goes back to the pool when fn returns, so fn must not keep it.
func (p *CanvasPool) Rasterize(ctx context.Context, scene *sketch.Scene, opts render.Options, fn func(*image.RGBA) error) error {
	if opts.Width != p.width || opts.Height != p.height {
		return fmt.Errorf("%w: pool holds %dx%d canvases, got %dx%d",
			render.ErrInvalidDimensions, p.width, p.height, opts.Width, opts.Height)
	}

	img, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(img)

	if err := render.RasterizeInto(img, scene, opts); err != nil {
		return err
	}
	return fn(img)
}

// Close releases idle canvases. Acquire fails afterwards; canvases still
// checked out are dropped when released. Safe to call more than once.
func (p *CanvasPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.canvases)
	for range p.canvases {
		p.created--
	}
}

// Idle returns the number of canvases waiting in the pool.
func (p *CanvasPool) Idle() int {
	return len(p.canvases)
}

// Created returns the number of live canvases, idle or checked out.
func (p *CanvasPool) Created() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}

// MaxSize returns the pool capacity.
func (p *CanvasPool) MaxSize() int {
	return p.maxSize
}

// IsClosed reports whether Close has been called.
func (p *CanvasPool) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
