// Package render draws scenes to raster (PNG) and vector (SVG) images.
package render

import "errors"

// Sentinel errors for render operations.
var (
	// Input validation errors
	ErrInvalidDimensions = errors.New("render: invalid image dimensions")
	ErrUnsupportedFormat = errors.New("render: unsupported output format")
	ErrNilScene          = errors.New("render: scene is nil")
	ErrInvalidColorIndex = errors.New("render: shape references a missing palette color")

	// PNG validation errors
	ErrImageEmpty      = errors.New("render: image data is empty")
	ErrImageNotPNG     = errors.New("render: image data is not a valid PNG")
	ErrImageTooSmall   = errors.New("render: image data too small to be valid")
	ErrImageDecodeFail = errors.New("render: failed to decode image")
	ErrImageEncodeFail = errors.New("render: failed to encode image")
)
