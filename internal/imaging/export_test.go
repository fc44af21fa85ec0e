package imaging

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_RoundTripsThroughDecoder(t *testing.T) {
	src := FromImage(createPatternImage(40, 20))
	out := filepath.Join(t.TempDir(), "out.png")

	res, err := Export(src, out, 1.0)
	require.NoError(t, err)
	assert.Equal(t, out, res.Path)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 20, res.Height)

	back, err := NewStandardDecoder(0).Decode(out)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, back.Pix)
}

func TestExport_Scaled(t *testing.T) {
	src := FromImage(createInMemoryImage(40, 20, color.RGBA{10, 200, 30, 255}))
	out := filepath.Join(t.TempDir(), "half.jpg")

	res, err := Export(src, out, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Width)
	assert.Equal(t, 10, res.Height)

	back, err := NewStandardDecoder(0).Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 20, back.Width)
	assert.Equal(t, 10, back.Height)
}

func TestExport_Errors(t *testing.T) {
	src := FromImage(createInMemoryImage(4, 4, color.Black))
	dir := t.TempDir()

	_, err := Export(src, filepath.Join(dir, "a.png"), 0)
	assert.Error(t, err, "zero scale")

	_, err = Export(src, filepath.Join(dir, "a.png"), 0.01)
	assert.Error(t, err, "scale collapsing image")

	_, err = Export(src, filepath.Join(dir, "a.unknownext"), 1)
	assert.Error(t, err, "unsupported extension")
}

func TestThumbnail(t *testing.T) {
	src := FromImage(createInMemoryImage(400, 200, color.White))

	thumb, err := Thumbnail(src, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, thumb.Width)
	assert.Equal(t, 50, thumb.Height)

	same, err := Thumbnail(src, 1000, 1000)
	require.NoError(t, err)
	assert.Same(t, src, same)

	_, err = Thumbnail(src, 0, 10)
	assert.Error(t, err)
}
