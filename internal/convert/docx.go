package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"convertapi/internal/format"
)

// extractDocxParagraphs pulls the paragraph texts out of the main document
// part (word/document.xml). Only text runs, tabs and explicit line breaks are
// kept; all formatting is discarded.
func extractDocxParagraphs(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open document part: %w", err)
			}
			defer rc.Close()
			return parseParagraphXML(rc)
		}
	}
	return nil, fmt.Errorf("docx has no word/document.xml part")
}

// parseParagraphXML walks WordprocessingML (or DrawingML) tokens collecting
// one string per <p> element. Namespace prefixes are ignored; only local
// names matter.
func parseParagraphXML(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var paragraphs []string
	var cur strings.Builder
	inParagraph := false
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				cur.Reset()
			case "t":
				inText = true
			case "br":
				if inParagraph {
					cur.WriteByte('\n')
				}
			case "tab":
				if inParagraph {
					cur.WriteByte('\t')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, cur.String())
					inParagraph = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inParagraph && inText {
				cur.Write(t)
			}
		}
	}
	return paragraphs, nil
}

// NewDocxToTextConverter extracts the raw paragraph text.
func NewDocxToTextConverter() ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		paragraphs, err := extractDocxParagraphs(in.Data)
		if err != nil {
			return nil, err
		}
		return &Result{
			Data: []byte(strings.Join(paragraphs, "\n")),
			MIME: format.MIMETXT,
		}, nil
	}
}

// NewDocxToPDFConverter lays the document's paragraphs out into a paginated
// PDF at a fixed margin.
func NewDocxToPDFConverter(marginMM float64) ConverterFunc {
	return func(ctx context.Context, in Input) (*Result, error) {
		paragraphs, err := extractDocxParagraphs(in.Data)
		if err != nil {
			return nil, err
		}

		doc, tr := newDocPDF(marginMM)
		doc.AddPage()
		for _, p := range paragraphs {
			if p == "" {
				doc.Ln(5.5)
				continue
			}
			doc.MultiCell(0, 5.5, tr(p), "", "L", false)
			doc.Ln(1.5)
		}
		return outputPDF(doc)
	}
}
