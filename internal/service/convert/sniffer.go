package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"docmill/internal/domain/models"
	"docmill/internal/formats"
)

// OOXML word-processing MIME type reported by mimetype for real DOCX files.
const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var pdfSignature = []byte("%PDF")

// ContentSniffer classifies uploads by inspecting their bytes, not just the
// claimed extension. Trusting extensions alone produces confusing failures
// deep in the pipeline; sniffing surfaces a precise, early, per-file
// diagnostic instead.
type ContentSniffer struct {
	formats *formats.Registry
}

// NewContentSniffer creates a sniffer backed by the format registry.
func NewContentSniffer(registry *formats.Registry) *ContentSniffer {
	return &ContentSniffer{formats: registry}
}

// Classify validates data against the format its filename claims.
//
// Validation per claimed extension:
//   - .txt:  rejected if any NUL byte is present (evidence of binary content)
//   - .pdf:  must begin with the literal %PDF signature
//   - .docx: detected MIME must be the OOXML word-processing type or the
//     ZIP family it is packaged in
//   - image extensions classify as KindImage and never convert
func (s *ContentSniffer) Classify(data []byte, filename string) (models.SourceKind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind := s.formats.KindFor(ext)

	switch kind {
	case models.KindText:
		if bytes.IndexByte(data, 0) >= 0 {
			return models.KindUnsupported, fmt.Errorf("%s is not a text file", filename)
		}
		return models.KindText, nil

	case models.KindPDF:
		if !bytes.HasPrefix(data, pdfSignature) {
			return models.KindUnsupported, fmt.Errorf("%s is not a valid PDF file", filename)
		}
		return models.KindPDF, nil

	case models.KindDocx:
		mtype := mimetype.Detect(data)
		if !mtype.Is(docxMIME) && !mtype.Is("application/zip") {
			return models.KindUnsupported, fmt.Errorf("%s is not a DOCX file", filename)
		}
		return models.KindDocx, nil

	case models.KindImage:
		return models.KindImage, nil

	default:
		return models.KindUnsupported, fmt.Errorf("unsupported file type %q", ext)
	}
}
