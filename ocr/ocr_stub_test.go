//go:build !ocr

package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New("rus", "eng")
	assert.ErrorIs(t, err, ErrOCRNotEnabled)
	assert.Nil(t, client)
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	assert.NoError(t, client.Close())
}

func TestStubOperations(t *testing.T) {
	var client *Client
	_, err := client.RecognizeImage(nil)
	assert.ErrorIs(t, err, ErrOCRNotEnabled)
	assert.ErrorIs(t, client.SetLanguage("rus"), ErrOCRNotEnabled)
	assert.ErrorIs(t, client.SetPageSegMode(PSM_AUTO), ErrOCRNotEnabled)
}
