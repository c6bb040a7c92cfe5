package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"docmill/internal/domain/models"
	domainSvc "docmill/internal/domain/services"
)

// pdfExtractor extracts plain text from PDF bytes.
type pdfExtractor struct{}

// NewPDFExtractor creates a PDF text extractor.
func NewPDFExtractor() domainSvc.Extractor {
	return &pdfExtractor{}
}

// Extract returns the document's plain text, trimmed. A structurally valid
// PDF that yields no text (typically a scanned document) is reported as the
// distinct no-text-extracted failure rather than a generic parser error.
func (e *pdfExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs; surface those as
	// per-file extraction failures instead of taking down the batch.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	text = strings.TrimSpace(buf.String())
	if text == "" {
		return "", errNoTextExtracted("PDF")
	}
	return text, nil
}

// Kind returns the source kind this extractor handles.
func (e *pdfExtractor) Kind() models.SourceKind {
	return models.KindPDF
}
