package convert

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"docmill/internal/domain/models"
	domainSvc "docmill/internal/domain/services"
)

// Minimal OOXML word-processing package: content types, package relationship
// and the document body are the only entries a conforming reader requires.
const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>
`
	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>
`
	docxDocumentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	docxDocumentClose = `</w:body></w:document>`
)

// docxEncoder writes a minimal word-processing document: one paragraph per
// input line, no styling. A trailing newline in the input yields a trailing
// empty paragraph, mirroring the line structure exactly.
type docxEncoder struct{}

// NewDocxEncoder creates a DOCX encoder.
func NewDocxEncoder() domainSvc.Encoder {
	return &docxEncoder{}
}

// Encode builds the OOXML package for the given text.
func (e *docxEncoder) Encode(text string) ([]byte, error) {
	body, err := buildDocumentXML(text)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", body},
	}
	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create package entry %s: %w", entry.name, err)
		}
		if _, err := w.Write([]byte(entry.content)); err != nil {
			return nil, fmt.Errorf("failed to write package entry %s: %w", entry.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize DOCX package: %w", err)
	}
	return buf.Bytes(), nil
}

// Target returns the format this encoder produces.
func (e *docxEncoder) Target() models.TargetFormat {
	return models.TargetDocx
}

// buildDocumentXML renders one <w:p> per input line. Lines are split on \n
// with \r\n normalized first, so both Unix and Windows line endings map to
// the same paragraph structure.
func buildDocumentXML(text string) (string, error) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	var sb strings.Builder
	sb.WriteString(docxDocumentOpen)
	for _, line := range lines {
		if line == "" {
			sb.WriteString("<w:p/>")
			continue
		}
		sb.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		if err := xml.EscapeText(&sb, []byte(line)); err != nil {
			return "", fmt.Errorf("failed to escape paragraph text: %w", err)
		}
		sb.WriteString(`</w:t></w:r></w:p>`)
	}
	sb.WriteString(docxDocumentClose)
	return sb.String(), nil
}
