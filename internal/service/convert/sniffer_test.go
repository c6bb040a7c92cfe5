package convert

import (
	"strings"
	"testing"

	"docmill/internal/domain/models"
	"docmill/internal/formats"
)

func newTestSniffer(t *testing.T) *ContentSniffer {
	t.Helper()
	registry, err := formats.NewRegistry()
	if err != nil {
		t.Fatalf("failed to load format registry: %v", err)
	}
	return NewContentSniffer(registry)
}

func TestSniffer_TextFiles(t *testing.T) {
	sniffer := newTestSniffer(t)

	kind, err := sniffer.Classify([]byte("hello world\n"), "notes.txt")
	if err != nil {
		t.Fatalf("Classify failed for valid text: %v", err)
	}
	if kind != models.KindText {
		t.Errorf("kind = %v, want %v", kind, models.KindText)
	}

	// A NUL byte is evidence of binary content, regardless of extension.
	_, err = sniffer.Classify([]byte("hello\x00world"), "binary.txt")
	if err == nil {
		t.Fatal("expected rejection for text file with NUL byte")
	}
	if !strings.Contains(err.Error(), "not a text file") {
		t.Errorf("error = %q, want a not-a-text-file diagnostic", err)
	}
}

func TestSniffer_PDFSignature(t *testing.T) {
	sniffer := newTestSniffer(t)

	kind, err := sniffer.Classify([]byte("%PDF-1.7\n..."), "report.pdf")
	if err != nil {
		t.Fatalf("Classify failed for valid PDF signature: %v", err)
	}
	if kind != models.KindPDF {
		t.Errorf("kind = %v, want %v", kind, models.KindPDF)
	}

	// A missing signature is reported as an invalid PDF, a distinct
	// diagnostic from the no-text-extracted case.
	_, err = sniffer.Classify([]byte("this is not a pdf"), "report.pdf")
	if err == nil {
		t.Fatal("expected rejection for PDF without %PDF signature")
	}
	if !strings.Contains(err.Error(), "not a valid PDF") {
		t.Errorf("error = %q, want an invalid-PDF diagnostic", err)
	}
}

func TestSniffer_DocxMIME(t *testing.T) {
	sniffer := newTestSniffer(t)

	// A real OOXML package produced by the encoder must classify as DOCX.
	content, err := NewDocxEncoder().Encode("hello")
	if err != nil {
		t.Fatalf("failed to build DOCX fixture: %v", err)
	}
	kind, err := sniffer.Classify(content, "letter.docx")
	if err != nil {
		t.Fatalf("Classify failed for valid DOCX: %v", err)
	}
	if kind != models.KindDocx {
		t.Errorf("kind = %v, want %v", kind, models.KindDocx)
	}

	_, err = sniffer.Classify([]byte("plain text pretending"), "letter.docx")
	if err == nil {
		t.Fatal("expected rejection for non-ZIP DOCX claim")
	}
	if !strings.Contains(err.Error(), "not a DOCX file") {
		t.Errorf("error = %q, want a not-a-DOCX diagnostic", err)
	}
}

func TestSniffer_ImagesAndUnsupported(t *testing.T) {
	sniffer := newTestSniffer(t)

	// Images are accepted at classification time; the conversion attempt
	// later fails with the OCR diagnostic.
	kind, err := sniffer.Classify([]byte{0x89, 'P', 'N', 'G'}, "scan.png")
	if err != nil {
		t.Fatalf("Classify failed for image: %v", err)
	}
	if kind != models.KindImage {
		t.Errorf("kind = %v, want %v", kind, models.KindImage)
	}

	if _, err := sniffer.Classify([]byte("#!/bin/sh"), "script.sh"); err == nil {
		t.Error("expected rejection for non-allow-listed extension")
	}
}
