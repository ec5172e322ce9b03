package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// PNG magic bytes for file identification
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// IsPNG checks if the given data starts with PNG magic bytes.
// This is a pure function with no side effects.
func IsPNG(data []byte) bool {
	if len(data) < len(pngMagic) {
		return false
	}
	return bytes.Equal(data[:len(pngMagic)], pngMagic)
}

// ValidatePNG validates that data is a decodable PNG and returns its size.
func ValidatePNG(data []byte) (image.Point, error) {
	if len(data) == 0 {
		return image.Point{}, ErrImageEmpty
	}

	// 8 (signature) + 25 (IHDR) + 12 (IEND) = 45 bytes minimum
	if len(data) < 45 {
		return image.Point{}, ErrImageTooSmall
	}

	if !IsPNG(data) {
		return image.Point{}, ErrImageNotPNG
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: %v", ErrImageDecodeFail, err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		return image.Point{}, fmt.Errorf("%w: %v", ErrImageDecodeFail, err)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

// EncodePNG encodes img with maximum compression. Renders are mostly flat
// color, so the slower setting pays off in file size.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrInvalidDimensions
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageEncodeFail, err)
	}
	return buf.Bytes(), nil
}
