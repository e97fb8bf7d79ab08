package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 80), B: 200, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, fn func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fn(&buf, testImage()), "encoding test image")
	return buf.Bytes()
}

func TestNormalizePNG(t *testing.T) {
	pngData := encode(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) })

	tests := []struct {
		name          string
		data          []byte
		wantConverted bool
	}{
		{"jpeg", encode(t, func(b *bytes.Buffer, img image.Image) error { return jpeg.Encode(b, img, nil) }), true},
		{"gif", encode(t, func(b *bytes.Buffer, img image.Image) error { return gif.Encode(b, img, nil) }), true},
		{"bmp", encode(t, func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) }), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, converted, err := NormalizePNG(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantConverted, converted)
			require.True(t, IsPNG(out), "output is not PNG")

			img, err := png.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
		})
	}

	t.Run("png unchanged", func(t *testing.T) {
		out, converted, err := NormalizePNG(pngData)
		require.NoError(t, err)
		assert.False(t, converted)
		assert.Equal(t, pngData, out)
	})
}

func TestNormalizePNG_Unrecognized(t *testing.T) {
	// EMF header record type 1.
	emf := []byte{0x01, 0x00, 0x00, 0x00, 0x6c, 0x00, 0x00, 0x00, 0x00, 0x00}

	out, converted, err := NormalizePNG(emf)
	require.NoError(t, err)
	assert.False(t, converted)
	assert.Equal(t, emf, out)
}

func TestNormalizePNG_Corrupt(t *testing.T) {
	data := encode(t, func(b *bytes.Buffer, img image.Image) error { return jpeg.Encode(b, img, nil) })
	_, _, err := NormalizePNG(data[:len(data)/2])
	assert.Error(t, err, "truncated JPEG")
}

func TestSniff(t *testing.T) {
	data := encode(t, func(b *bytes.Buffer, img image.Image) error { return gif.Encode(b, img, nil) })
	assert.Equal(t, "gif", Sniff(data))
	assert.Empty(t, Sniff([]byte("nope")))
}
