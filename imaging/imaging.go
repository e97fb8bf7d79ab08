// Package imaging converts extracted picture parts to PNG so that side files
// named *.png hold PNG data.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// IsPNG reports whether data starts with the PNG signature.
func IsPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngSignature)
}

// Sniff returns the registered format name of data, or "" if no decoder
// recognizes it (for example EMF or WMF vector pictures).
func Sniff(data []byte) string {
	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return name
}

// NormalizePNG returns data re-encoded as PNG. PNG input is returned as is.
// Data no decoder recognizes is returned unchanged with converted false;
// data that is recognized but fails to decode is an error.
func NormalizePNG(data []byte) (out []byte, converted bool, err error) {
	if IsPNG(data) {
		return data, false, nil
	}
	if Sniff(data) == "" {
		return data, false, nil
	}

	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decoding %s image: %w", name, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, false, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), true, nil
}
