package circulars

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Extractor reads the text content of a document.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (Extraction, error)
}

// PDFExtractor validates PDFs with pdfcpu and reads text from page content streams.
// Scanned pages without text operators yield no text.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDFExtractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (Extraction, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdf, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: read: %v", ErrExtractionFailed, err)
	}
	if err := api.ValidateContext(pdf); err != nil {
		return Extraction{}, fmt.Errorf("%w: validate: %v", ErrExtractionFailed, err)
	}

	var sb strings.Builder
	for page := 1; page <= pdf.PageCount; page++ {
		if err := ctx.Err(); err != nil {
			return Extraction{}, err
		}

		r, err := pdfcpu.ExtractPageContent(pdf, page)
		if err != nil {
			return Extraction{}, fmt.Errorf("%w: page %d: %v", ErrExtractionFailed, page, err)
		}
		if r == nil {
			continue
		}

		content, err := io.ReadAll(r)
		if err != nil {
			return Extraction{}, fmt.Errorf("%w: page %d: %v", ErrExtractionFailed, page, err)
		}

		if text := contentText(content); text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(text)
		}
	}

	return Extraction{Text: sb.String(), PageCount: pdf.PageCount}, nil
}
