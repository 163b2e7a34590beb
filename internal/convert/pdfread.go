package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image/png"
	"math"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"convertapi/internal/format"
)

// wordGap is the horizontal slack (in PDF units) under which two adjacent
// glyph runs are glued into one word.
const wordGap = 1.5

// extractPages returns the positioned text runs of each page, with glyph runs
// already assembled into words.
func extractPages(data []byte) ([][]Run, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	pages := make([][]Run, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, assembleWords(p.Content().Text))
	}
	return pages, nil
}

// assembleWords merges horizontally adjacent glyph runs on the same baseline
// into word-level runs.
func assembleWords(texts []pdf.Text) []Run {
	var runs []Run
	var cur Run
	var curEnd float64
	flush := func() {
		if cur.Text != "" {
			runs = append(runs, cur)
		}
		cur = Run{}
	}
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		sameBaseline := math.Abs(t.Y-cur.Y) < 0.5
		if cur.Text != "" && sameBaseline && t.X-curEnd < wordGap {
			cur.Text += t.S
			curEnd = t.X + t.W
			continue
		}
		flush()
		cur = Run{Text: t.S, X: t.X, Y: t.Y}
		curEnd = t.X + t.W
	}
	flush()

	// Drop whitespace-only runs produced by explicit space glyphs.
	out := runs[:0]
	for _, r := range runs {
		if strings.TrimSpace(r.Text) != "" {
			r.Text = strings.TrimSpace(r.Text)
			out = append(out, r)
		}
	}
	return out
}

// NewPDFToTextConverter concatenates all runs per page under a page-delimiter
// header, with no positional reasoning beyond line grouping.
func NewPDFToTextConverter() ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		pages, err := extractPages(in.Data)
		if err != nil {
			return nil, err
		}

		var b strings.Builder
		for i, runs := range pages {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "--- Page %d ---\n", i+1)
			for _, line := range GroupLines(runs) {
				b.WriteString(line.Text())
				b.WriteString("\n")
			}
		}
		return &Result{Data: []byte(b.String()), MIME: format.MIMETXT}, nil
	}
}

// NewPDFToDocxConverter emits one paragraph per extracted line and a page
// break between pages.
func NewPDFToDocxConverter() ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		pages, err := extractPages(in.Data)
		if err != nil {
			return nil, err
		}

		doc := docx.New().WithDefaultTheme()
		for i, runs := range pages {
			if i > 0 {
				doc.AddParagraph().AddPageBreaks()
			}
			for _, line := range GroupLines(runs) {
				doc.AddParagraph().AddText(line.Text())
			}
		}

		var buf bytes.Buffer
		if _, err := doc.WriteTo(&buf); err != nil {
			return nil, fmt.Errorf("write docx: %w", err)
		}
		return &Result{Data: buf.Bytes(), MIME: format.MIMEDOCX}, nil
	}
}

// NewPDFToXlsxConverter clusters each page's runs into rows and global column
// buckets and emits one sheet per page. Numeric-looking cells are coerced to
// numbers; cells too far from every column bucket are dropped.
func NewPDFToXlsxConverter() ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		pages, err := extractPages(in.Data)
		if err != nil {
			return nil, err
		}

		f := excelize.NewFile()
		defer f.Close()

		for pi, runs := range pages {
			sheet := fmt.Sprintf("Page %d", pi+1)
			if pi == 0 {
				if err := f.SetSheetName("Sheet1", sheet); err != nil {
					return nil, fmt.Errorf("rename sheet: %w", err)
				}
			} else if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("add sheet: %w", err)
			}

			cols := ClusterColumns(runs)
			for ri, row := range GroupLines(runs) {
				for _, run := range row.Runs {
					ci := AssignColumn(cols, run.X)
					if ci < 0 {
						continue
					}
					cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
					if err != nil {
						return nil, fmt.Errorf("cell name: %w", err)
					}
					if err := f.SetCellValue(sheet, cell, CoerceCell(run.Text)); err != nil {
						return nil, fmt.Errorf("set cell: %w", err)
					}
				}
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return nil, fmt.Errorf("write xlsx: %w", err)
		}
		return &Result{Data: buf.Bytes(), MIME: format.MIMEXLSX}, nil
	}
}

// NewPDFToImagesConverter renders each page at the configured DPI and packs
// the per-page PNGs into a ZIP archive.
func NewPDFToImagesConverter(dpi float64) ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		doc, err := fitz.NewFromMemory(in.Data)
		if err != nil {
			return nil, fmt.Errorf("open pdf: %w", err)
		}
		defer doc.Close()

		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		for n := 0; n < doc.NumPage(); n++ {
			img, err := doc.ImageDPI(n, dpi)
			if err != nil {
				return nil, fmt.Errorf("render page %d: %w", n+1, err)
			}
			w, err := zw.Create(fmt.Sprintf("page_%d.png", n+1))
			if err != nil {
				return nil, fmt.Errorf("archive page %d: %w", n+1, err)
			}
			if err := png.Encode(w, img); err != nil {
				return nil, fmt.Errorf("encode page %d: %w", n+1, err)
			}
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("close archive: %w", err)
		}
		return &Result{Data: buf.Bytes(), MIME: format.MIMEZIP}, nil
	}
}
