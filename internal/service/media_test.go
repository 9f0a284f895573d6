package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMediaStore_SaveImage(t *testing.T) {
	dir := t.TempDir()
	store := NewMediaStore(dir, "media/")
	assert.Equal(t, "/media", store.URLPath())

	stored, err := store.SaveImage(bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "posts_images/"), stored)
	assert.True(t, strings.HasSuffix(stored, ".png"), stored)

	info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(stored)))
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Equal(t, "/media/"+stored, store.URL(stored))
	assert.Empty(t, store.URL(""))

	again, err := store.SaveImage(bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.NotEqual(t, stored, again)

	require.NoError(t, store.Remove(again))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(again)))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Remove(again), "removing twice is a no-op")
}

func TestMediaStore_RejectsBadUploads(t *testing.T) {
	store := NewMediaStore(t.TempDir(), "/media")

	_, err := store.SaveImage(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrImageInvalid)

	store.maxBytes = 16
	_, err = store.SaveImage(bytes.NewReader(pngBytes(t)))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
