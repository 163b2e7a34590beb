package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"convertapi/internal/format"
)

// Slide pages keep a fixed 16:9 aspect ratio regardless of the deck's
// declared dimensions.
const (
	slidePageWidthPt  = 960.0
	slidePageHeightPt = 540.0
	slideMarginPt     = 48.0
)

// extractSlides returns the paragraph texts of each slide in deck order.
func extractSlides(data []byte) ([][]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pptx: %w", err)
	}

	type slidePart struct {
		index int
		file  *zip.File
	}
	var parts []slidePart
	for _, f := range zr.File {
		name := f.Name
		if !strings.HasPrefix(name, "ppt/slides/slide") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		num := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
		idx, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		parts = append(parts, slidePart{index: idx, file: f})
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("pptx has no slides")
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })

	slides := make([][]string, 0, len(parts))
	for _, part := range parts {
		rc, err := part.file.Open()
		if err != nil {
			return nil, fmt.Errorf("open slide %d: %w", part.index, err)
		}
		paragraphs, err := parseParagraphXML(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", part.index, err)
		}
		// Empty paragraphs carry no content on a slide.
		kept := paragraphs[:0]
		for _, p := range paragraphs {
			if strings.TrimSpace(p) != "" {
				kept = append(kept, p)
			}
		}
		slides = append(slides, kept)
	}
	return slides, nil
}

// NewPptxToPDFConverter renders one fixed-aspect page per slide with a page
// break between slides.
func NewPptxToPDFConverter() ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		slides, err := extractSlides(in.Data)
		if err != nil {
			return nil, err
		}

		doc := gofpdf.NewCustom(&gofpdf.InitType{
			UnitStr: "pt",
			Size:    gofpdf.SizeType{Wd: slidePageWidthPt, Ht: slidePageHeightPt},
		})
		doc.SetMargins(slideMarginPt, slideMarginPt, slideMarginPt)
		doc.SetAutoPageBreak(false, slideMarginPt)
		tr := doc.UnicodeTranslatorFromDescriptor("")

		for _, paragraphs := range slides {
			doc.AddPage()
			for i, p := range paragraphs {
				if i == 0 {
					doc.SetFont("Helvetica", "B", 28)
				} else {
					doc.SetFont("Helvetica", "", 16)
				}
				doc.MultiCell(slidePageWidthPt-2*slideMarginPt, 24, tr(p), "", "L", false)
				doc.Ln(8)
			}
		}
		return outputPDF(doc)
	}
}

// NewPptxToImagesConverter snapshots each slide onto its own raster surface
// and packs the PNGs into a ZIP archive.
func NewPptxToImagesConverter(pool *SurfacePool, width, height int) ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		slides, err := extractSlides(in.Data)
		if err != nil {
			return nil, err
		}

		surface, err := pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		defer surface.Release()

		margin := float64(width) / 20
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		for si, paragraphs := range slides {
			dc := surface.Context(width, height, float64(height)/24)
			y := margin
			lineHeight := float64(height) / 16
			for _, p := range paragraphs {
				for _, line := range dc.WordWrap(p, float64(width)-2*margin) {
					if y > float64(height)-margin {
						break
					}
					dc.DrawString(line, margin, y)
					y += lineHeight
				}
				y += lineHeight / 2
			}

			w, err := zw.Create(fmt.Sprintf("slide_%d.png", si+1))
			if err != nil {
				return nil, fmt.Errorf("archive slide %d: %w", si+1, err)
			}
			if err := dc.EncodePNG(w); err != nil {
				return nil, fmt.Errorf("encode slide %d: %w", si+1, err)
			}
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("close archive: %w", err)
		}
		return &Result{Data: buf.Bytes(), MIME: format.MIMEZIP}, nil
	}
}
