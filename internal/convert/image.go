package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	// Decoders for the raster source formats the intake accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"

	"convertapi/internal/format"
)

var encodeFormats = map[string]imaging.Format{
	format.MIMEPNG:  imaging.PNG,
	format.MIMEJPEG: imaging.JPEG,
	format.MIMEGIF:  imaging.GIF,
	format.MIMEBMP:  imaging.BMP,
	format.MIMETIFF: imaging.TIFF,
}

// Targets without an alpha channel: transparent pixels must be flattened onto
// white first or they come out black.
var opaqueTargets = map[string]bool{
	format.MIMEJPEG: true,
	format.MIMEBMP:  true,
}

func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// FlattenOnWhite paints the image over an opaque white background.
func FlattenOnWhite(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)
	return out
}

// NewImageConverter converts one raster format into another. When the target
// has no alpha channel the image is flattened onto white before encoding.
func NewImageConverter(target string, jpegQuality int) ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		encFormat, ok := encodeFormats[target]
		if !ok {
			return nil, fmt.Errorf("no encoder for %s", target)
		}

		img, err := decodeImage(in.Data)
		if err != nil {
			return nil, err
		}
		if opaqueTargets[target] {
			img = FlattenOnWhite(img)
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, encFormat, imaging.JPEGQuality(jpegQuality)); err != nil {
			return nil, fmt.Errorf("encode %s: %w", target, err)
		}
		return &Result{Data: buf.Bytes(), MIME: target}, nil
	}
}
