// Package services defines the service interfaces the conversion pipeline is
// wired against. Handlers and the orchestrator depend on these interfaces,
// not on concrete implementations.
package services

import (
	"context"

	"docmill/internal/domain/models"
)

// Sniffer classifies a file's true format from its bytes and claimed name.
type Sniffer interface {
	// Classify returns the detected kind, or a non-nil error describing the
	// per-file validation failure (signature mismatch, binary content where
	// text was expected, MIME mismatch).
	Classify(data []byte, filename string) (models.SourceKind, error)
}

// Extractor produces normalized plain text from validated source bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
	Kind() models.SourceKind
}

// Encoder produces output bytes for one target format from plain text.
type Encoder interface {
	Encode(text string) ([]byte, error)
	Target() models.TargetFormat
}

// OCREngine recognizes text in images. The shipped implementation is a
// recognized but disabled capability; a real engine is a drop-in replacement
// with no orchestrator changes.
type OCREngine interface {
	Recognize(ctx context.Context, data []byte) (string, error)
	Enabled() bool
}

// BatchRequest is one client submission: staged source files converted under
// a single target format string (case-insensitive, validated per file).
type BatchRequest struct {
	Files  []models.UploadedFile
	Target string
}

// BatchResult references the registered artifact for a successful batch.
type BatchResult struct {
	Artifact  models.Artifact
	ItemCount int
	Outcomes  []models.Outcome
}

// BatchService runs one conversion batch end to end.
type BatchService interface {
	Run(ctx context.Context, req BatchRequest) (*BatchResult, error)
}

// ArtifactRegistry maps opaque download ids to stored artifacts.
type ArtifactRegistry interface {
	Register(displayName string, content []byte) (models.Artifact, error)
	RegisterFile(displayName string, srcPath string) (models.Artifact, error)
	Resolve(downloadID, displayName string) (string, error)
}

// HistoryLog is a bounded record of recent conversion events.
type HistoryLog interface {
	Record(entry models.HistoryEntry)
	Recent() []models.HistoryEntry
}
