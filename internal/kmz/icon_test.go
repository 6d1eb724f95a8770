package kmz

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIconScalesToStandardSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "icon.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	icon, err := LoadIcon(path)
	require.NoError(t, err)
	require.NotEmpty(t, icon.PNG)

	out, err := png.Decode(bytes.NewReader(icon.PNG))
	require.NoError(t, err)
	assert.Equal(t, iconSize, out.Bounds().Dx())
	assert.Equal(t, iconSize, out.Bounds().Dy())
}

func TestLoadIconRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.bin")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := LoadIcon(path)
	require.Error(t, err)
}

func TestLoadIconMissingFile(t *testing.T) {
	_, err := LoadIcon(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}
