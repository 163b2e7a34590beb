package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"convertapi/internal/format"
)

type sheetData struct {
	Name string
	Rows [][]string
}

func readWorkbook(data []byte) ([]sheetData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var sheets []sheetData
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		sheets = append(sheets, sheetData{Name: name, Rows: rows})
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return sheets, nil
}

// NewXlsxToTextConverter serializes each sheet as tab-delimited text under a
// sheet-name header.
func NewXlsxToTextConverter() ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		sheets, err := readWorkbook(in.Data)
		if err != nil {
			return nil, err
		}

		var b strings.Builder
		for i, sheet := range sheets {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "--- %s ---\n", sheet.Name)
			for _, row := range sheet.Rows {
				b.WriteString(strings.Join(row, "\t"))
				b.WriteString("\n")
			}
		}
		return &Result{Data: []byte(b.String()), MIME: format.MIMETXT}, nil
	}
}

// NewXlsxToCSVConverter emits the sheets back to back, each preceded by a
// single-field record carrying the sheet name.
func NewXlsxToCSVConverter() ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		sheets, err := readWorkbook(in.Data)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		for _, sheet := range sheets {
			if err := w.Write([]string{sheet.Name}); err != nil {
				return nil, fmt.Errorf("write csv: %w", err)
			}
			for _, row := range sheet.Rows {
				if err := w.Write(row); err != nil {
					return nil, fmt.Errorf("write csv: %w", err)
				}
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("flush csv: %w", err)
		}
		return &Result{Data: buf.Bytes(), MIME: format.MIMECSV}, nil
	}
}

// NewXlsxToPDFConverter renders each sheet as a bordered table with a
// sheet-title heading, one sheet per page run.
func NewXlsxToPDFConverter(marginMM float64) ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		sheets, err := readWorkbook(in.Data)
		if err != nil {
			return nil, err
		}

		doc := gofpdf.New("L", "mm", "A4", "")
		doc.SetMargins(marginMM, marginMM, marginMM)
		doc.SetAutoPageBreak(true, marginMM)
		tr := doc.UnicodeTranslatorFromDescriptor("")

		pageW, _ := doc.GetPageSize()
		usable := pageW - 2*marginMM

		for _, sheet := range sheets {
			doc.AddPage()
			doc.SetFont("Helvetica", "B", 13)
			doc.CellFormat(0, 8, tr(sheet.Name), "", 1, "L", false, 0, "")
			doc.Ln(2)

			cols := 0
			for _, row := range sheet.Rows {
				if len(row) > cols {
					cols = len(row)
				}
			}
			if cols == 0 {
				continue
			}
			colW := usable / float64(cols)

			doc.SetFont("Helvetica", "", 9)
			for _, row := range sheet.Rows {
				for c := 0; c < cols; c++ {
					cell := ""
					if c < len(row) {
						cell = row[c]
					}
					doc.CellFormat(colW, 6, tr(cell), "1", 0, "L", false, 0, "")
				}
				doc.Ln(-1)
			}
		}
		return outputPDF(doc)
	}
}
