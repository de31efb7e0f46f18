package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestProcessSmallJPEG(t *testing.T) {
	photo, err := Process(bytes.NewReader(makeJPEG(t, 400, 300)))
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", photo.MIME)

	// Already within bounds, so no resize.
	w, h := decodeDims(t, photo.Data)
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)

	tw, th := decodeDims(t, photo.Thumb)
	assert.Equal(t, ThumbSize, tw)
	assert.Equal(t, ThumbSize, th)
}

func TestProcessDownscalesOversized(t *testing.T) {
	photo, err := Process(bytes.NewReader(makeJPEG(t, 2048, 1024)))
	require.NoError(t, err)

	w, h := decodeDims(t, photo.Data)
	assert.Equal(t, MaxDimension, w, "long side clamped")
	assert.Equal(t, MaxDimension/2, h, "aspect ratio preserved")
}

func TestProcessPNGBecomesJPEG(t *testing.T) {
	photo, err := Process(bytes.NewReader(makePNG(t, 100, 100)))
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", photo.MIME)
	_, format, err := image.Decode(bytes.NewReader(photo.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := Process(bytes.NewReader([]byte("definitely not an image, just text")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported photo format")
}

func TestProcessRejectsSpoofedExtensionlessData(t *testing.T) {
	// A GIF header decodes fine with the right decoder but is not accepted.
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	_, err := Process(bytes.NewReader(gif))
	assert.Error(t, err)
}
