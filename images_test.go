package folio

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestSocialImageScalesToOpenGraphWidth(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "images", "social.png"), 600, 315)

	s := NewSocialImage(dir, "images/social.png")
	require.True(t, s.Available())

	data, err := s.JPEG()
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 630, img.Bounds().Dy())

	again, err := s.JPEG()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestSocialImageMissing(t *testing.T) {
	s := NewSocialImage(t.TempDir(), "images/social.webp")
	assert.False(t, s.Available())
	_, err := s.JPEG()
	assert.ErrorIs(t, err, fs.ErrNotExist)

	assert.False(t, NewSocialImage("public", "").Available())
}

func TestSocialImageRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "social.webp"), []byte("not an image"), 0o644))
	_, err := NewSocialImage(dir, "social.webp").JPEG()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}
