package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"docmill/internal/domain/models"
	domainSvc "docmill/internal/domain/services"
)

// docxExtractor extracts plain text from DOCX bytes. A DOCX file is a ZIP
// package whose body text lives in word/document.xml; paragraphs (<w:p>)
// become lines, runs of text (<w:t>) are concatenated, tabs and explicit
// breaks are preserved.
type docxExtractor struct{}

// NewDocxExtractor creates a DOCX text extractor.
func NewDocxExtractor() domainSvc.Extractor {
	return &docxExtractor{}
}

// Extract returns the document's paragraph text joined by newlines, with
// leading and trailing whitespace trimmed. Trimming means a document whose
// last paragraph is empty loses that trailing blank line; the DOCX
// encoder/extractor round-trip is stable up to this normalization.
func (e *docxExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX package: %w", err)
	}

	var document *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("DOCX package has no word/document.xml")
	}

	rc, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document body: %w", err)
	}
	defer rc.Close()

	text, err := decodeDocumentXML(rc)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errNoTextExtracted("DOCX document")
	}
	return text, nil
}

// Kind returns the source kind this extractor handles.
func (e *docxExtractor) Kind() models.SourceKind {
	return models.KindDocx
}

// decodeDocumentXML walks word/document.xml collecting text content.
func decodeDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	inText := false
	paragraphs := 0

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode document body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if paragraphs > 0 {
					sb.WriteByte('\n')
				}
				paragraphs++
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
