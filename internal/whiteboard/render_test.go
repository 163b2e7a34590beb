package whiteboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convertapi/internal/convert"
)

func testPool(t *testing.T) *convert.SurfacePool {
	t.Helper()
	pool, err := convert.NewSurfacePool(1)
	require.NoError(t, err)
	return pool
}

func TestRenderPNGDrawsElements(t *testing.T) {
	pool := testPool(t)
	elements := []Element{
		{ID: "r", Type: TypeRect, X: 10, Y: 10, Width: 80, Height: 40, Color: "#ff0000", StrokeWidth: 4},
		{ID: "c", Type: TypeCircle, X: 150, Y: 100, Radius: 30, Color: "#0000ff"},
		{ID: "t", Type: TypeText, X: 20, Y: 120, Text: "hello", FontSize: 24},
		{ID: "p", Type: TypePencil, Points: []Point{{X: 5, Y: 180}, {X: 190, Y: 180}}},
	}

	data, err := RenderPNG(context.Background(), pool, elements, 200, 200)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	// Background stays white, the rect border is red.
	r, g, b, _ := img.At(100, 100).RGBA()
	assert.Equal(t, uint32(255), r>>8)
	assert.Equal(t, uint32(255), g>>8)
	assert.Equal(t, uint32(255), b>>8)

	r, g, b, _ = img.At(50, 10).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Less(t, g>>8, uint32(100))
	assert.Less(t, b>>8, uint32(100))
}

func TestRenderPNGEmptyBoard(t *testing.T) {
	data, err := RenderPNG(context.Background(), testPool(t), nil, 64, 64)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	r, g, b, _ := img.At(32, 32).RGBA()
	assert.Equal(t, uint32(0xffffff), (r>>8)<<16|(g>>8)<<8|b>>8)
}

func TestRenderPNGImageElement(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	elements := []Element{{
		ID: "img", Type: TypeImage, X: 10, Y: 10, Width: 20, Height: 20, ImageData: dataURL,
	}}
	data, err := RenderPNG(context.Background(), testPool(t), elements, 64, 64)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	_, g, _, _ := img.At(20, 20).RGBA()
	assert.Greater(t, g>>8, uint32(200))
}

func TestRenderPNGRejectsBadImageData(t *testing.T) {
	elements := []Element{{ID: "img", Type: TypeImage, ImageData: "not a data url"}}
	_, err := RenderPNG(context.Background(), testPool(t), elements, 32, 32)
	assert.Error(t, err)

	// The surface slot must be released on the error path.
	pool := testPool(t)
	_, err = RenderPNG(context.Background(), pool, elements, 32, 32)
	require.Error(t, err)
	s, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	s.Release()
}
