package convert

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/jung-kurt/gofpdf"

	"convertapi/internal/format"
)

// newDocPDF returns an A4 portrait document with the shared margin and body
// font applied, plus a translator for the core-font code page.
func newDocPDF(marginMM float64) (*gofpdf.Fpdf, func(string) string) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(marginMM, marginMM, marginMM)
	doc.SetAutoPageBreak(true, marginMM)
	doc.SetFont("Helvetica", "", 11)
	return doc, doc.UnicodeTranslatorFromDescriptor("")
}

func outputPDF(doc *gofpdf.Fpdf) (*Result, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return &Result{Data: buf.Bytes(), MIME: format.MIMEPDF}, nil
}

// NewImageToPDFConverter embeds a raster image as a single page sized to the
// image's pixel dimensions, so a wider-than-tall image yields a landscape
// page.
func NewImageToPDFConverter() ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		img, err := decodeImage(in.Data)
		if err != nil {
			return nil, err
		}
		bounds := img.Bounds()
		w := float64(bounds.Dx())
		h := float64(bounds.Dy())
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("image has no pixels")
		}

		// Re-encode to PNG so every decodable source format can be embedded.
		var pngBuf bytes.Buffer
		if err := png.Encode(&pngBuf, img); err != nil {
			return nil, fmt.Errorf("encode page image: %w", err)
		}

		doc := gofpdf.NewCustom(&gofpdf.InitType{
			UnitStr: "pt",
			Size:    gofpdf.SizeType{Wd: w, Ht: h},
		})
		doc.AddPage()
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		doc.RegisterImageOptionsReader("page", opts, &pngBuf)
		doc.ImageOptions("page", 0, 0, w, h, false, opts, 0, "")
		return outputPDF(doc)
	}
}

// NewTextToPDFConverter word-wraps plain text to a fixed page width and
// paginates when the page runs out of vertical space.
func NewTextToPDFConverter(marginMM float64) ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		doc, tr := newDocPDF(marginMM)
		doc.AddPage()
		for _, line := range splitLines(string(in.Data)) {
			if line == "" {
				doc.Ln(5.5)
				continue
			}
			doc.MultiCell(0, 5.5, tr(line), "", "L", false)
		}
		return outputPDF(doc)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			line := s[start:i]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			lines = append(lines, line)
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
