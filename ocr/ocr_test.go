//go:build ocr

package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestPNG creates a white image with one black bar.
func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for x := 10; x < 50; x++ {
		for y := 10; y < 30; y++ {
			img.Set(x, y, color.Black)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newClient(t *testing.T) *Client {
	t.Helper()
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRecognizeImage(t *testing.T) {
	client := newClient(t)

	// The image holds no text; only check the call succeeds.
	_, err := client.RecognizeImage(createTestPNG(t, 100, 50))
	assert.NoError(t, err)
}

func TestSetLanguage(t *testing.T) {
	assert.NoError(t, newClient(t).SetLanguage("eng"))
}

func TestSetPageSegMode(t *testing.T) {
	client := newClient(t)
	require.NoError(t, client.SetPageSegMode(PSM_SINGLE_BLOCK))

	_, err := client.RecognizeImage(createTestPNG(t, 100, 50))
	assert.NoError(t, err)
}

func TestClose(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}

	assert.NoError(t, client.Close())

	client.client = nil
	assert.NoError(t, client.Close(), "Close on a released client")
}
