package whiteboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"convertapi/internal/convert"
)

const (
	defaultFontSize    = 16.0
	defaultStrokeWidth = 2.0
)

// RenderPNG rasterizes the element list in paint order onto a white canvas
// and returns the encoded PNG.
func RenderPNG(ctx context.Context, pool *convert.SurfacePool, elements []Element, width, height int) ([]byte, error) {
	surface, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer surface.Release()

	dc := surface.Context(width, height, defaultFontSize)
	for _, el := range elements {
		color := el.Color
		if color == "" {
			color = "#000000"
		}
		dc.SetHexColor(color)

		stroke := el.StrokeWidth
		if stroke <= 0 {
			stroke = defaultStrokeWidth
		}
		dc.SetLineWidth(stroke)

		switch el.Type {
		case TypeRect:
			dc.DrawRectangle(el.X, el.Y, el.Width, el.Height)
			dc.Stroke()
		case TypeCircle:
			dc.DrawCircle(el.X, el.Y, el.Radius)
			dc.Stroke()
		case TypeText:
			size := el.FontSize
			if size <= 0 {
				size = defaultFontSize
			}
			dc.SetFontFace(surface.FontFace(size))
			dc.DrawString(el.Text, el.X, el.Y+size)
		case TypePencil:
			if len(el.Points) < 2 {
				continue
			}
			dc.MoveTo(el.Points[0].X, el.Points[0].Y)
			for _, p := range el.Points[1:] {
				dc.LineTo(p.X, p.Y)
			}
			dc.Stroke()
		case TypeImage:
			img, err := decodeDataURL(el.ImageData)
			if err != nil {
				return nil, fmt.Errorf("element %s: %w", el.ID, err)
			}
			if el.Width > 0 && el.Height > 0 {
				img = imaging.Resize(img, int(el.Width), int(el.Height), imaging.Lanczos)
			}
			dc.DrawImage(img, int(el.X), int(el.Y))
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode board png: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeDataURL decodes an image carried inline as a base64 data URL.
func decodeDataURL(dataURL string) (image.Image, error) {
	_, encoded, found := strings.Cut(dataURL, ";base64,")
	if !found {
		return nil, fmt.Errorf("image data is not a base64 data url")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image element: %w", err)
	}
	return img, nil
}
