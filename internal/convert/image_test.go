package convert

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convertapi/internal/format"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestImageConverterTransparentToJPEGFlattensWhite(t *testing.T) {
	src := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 8, 8)))

	res, err := NewImageConverter(format.MIMEJPEG, 90)(context.Background(), Input{
		Data:   src,
		Source: format.MIMEPNG,
		Target: format.MIMEJPEG,
	})
	require.NoError(t, err)
	assert.Equal(t, format.MIMEJPEG, res.MIME)

	img, kind, err := image.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", kind)

	r, g, b, _ := img.At(4, 4).RGBA()
	assert.GreaterOrEqual(t, r>>8, uint32(250))
	assert.GreaterOrEqual(t, g>>8, uint32(250))
	assert.GreaterOrEqual(t, b>>8, uint32(250))
}

func TestImageConverterJPEGToPNGKeepsColor(t *testing.T) {
	jpegConv := NewImageConverter(format.MIMEJPEG, 95)
	pngConv := NewImageConverter(format.MIMEPNG, 95)

	asJPEG, err := jpegConv(context.Background(), Input{
		Data: encodePNG(t, solidImage(8, 8, color.RGBA{R: 255, A: 255})),
	})
	require.NoError(t, err)

	res, err := pngConv(context.Background(), Input{Data: asJPEG.Data})
	require.NoError(t, err)
	assert.Equal(t, format.MIMEPNG, res.MIME)

	img, kind, err := image.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", kind)

	r, g, b, _ := img.At(4, 4).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Less(t, g>>8, uint32(60))
	assert.Less(t, b>>8, uint32(60))
}

func TestImageConverterRejectsGarbage(t *testing.T) {
	_, err := NewImageConverter(format.MIMEPNG, 90)(context.Background(), Input{
		Data: []byte("not an image"),
	})
	assert.Error(t, err)
}

func TestImageToPDFSinglePage(t *testing.T) {
	src := encodePNG(t, solidImage(100, 50, color.RGBA{B: 255, A: 255}))

	res, err := NewImageToPDFConverter()(context.Background(), Input{Data: src})
	require.NoError(t, err)
	assert.Equal(t, format.MIMEPDF, res.MIME)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("%PDF")))

	r, err := pdf.NewReader(bytes.NewReader(res.Data), int64(len(res.Data)))
	require.NoError(t, err)
	assert.Equal(t, 1, r.NumPage())
}

func TestSurfacePoolLimitsConcurrency(t *testing.T) {
	pool, err := NewSurfacePool(1)
	require.NoError(t, err)

	s, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	s.Release()
	s.Release() // second release is a no-op

	s2, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	s2.Release()
}
