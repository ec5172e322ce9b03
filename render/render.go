package render

import (
	"fmt"
	"io"

	"hashart/sketch"
)

// Encode renders scene in the requested format and writes it to w.
func Encode(w io.Writer, scene *sketch.Scene, format Format, opts Options) error {
	switch format {
	case FormatPNG:
		img, err := Rasterize(scene, opts)
		if err != nil {
			return err
		}
		data, err := EncodePNG(img)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write PNG: %w", err)
		}
		return nil
	case FormatSVG:
		return WriteSVG(w, scene, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
