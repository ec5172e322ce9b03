package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Thumbnail scales img to fit a size x size square using Catmull-Rom
// resampling. Non-square sources are centred and letterboxed with pad.
// Returns nil if size is not positive.
func Thumbnail(img image.Image, size int, pad color.Color) image.Image {
	if size <= 0 || img == nil {
		return nil
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	scale := float64(size) / float64(max(width, height))
	newWidth := max(1, int(float64(width)*scale+0.5))
	newHeight := max(1, int(float64(height)*scale+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(pad), image.Point{}, draw.Src)

	offsetX := (size - newWidth) / 2
	offsetY := (size - newHeight) / 2
	target := image.Rect(offsetX, offsetY, offsetX+newWidth, offsetY+newHeight)
	draw.CatmullRom.Scale(dst, target, img, bounds, draw.Over, nil)

	return dst
}
