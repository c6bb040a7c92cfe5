package models

import "time"

// SourceKind is the detected format of an uploaded file. It is derived from
// the file's bytes, never trusted from the claimed extension alone.
type SourceKind string

const (
	KindPDF         SourceKind = "pdf"
	KindDocx        SourceKind = "docx"
	KindText        SourceKind = "text"
	KindImage       SourceKind = "image"
	KindUnsupported SourceKind = "unsupported"
)

// TargetFormat is a supported conversion target.
type TargetFormat string

const (
	TargetTxt  TargetFormat = "txt"
	TargetDocx TargetFormat = "docx"
)

// Extension returns the output filename extension for the target.
func (t TargetFormat) Extension() string {
	return "." + string(t)
}

// UploadedFile represents one staged source file within a batch.
// The staged copy is owned by the orchestrator for the duration of the batch
// and is deleted unconditionally when the batch completes.
type UploadedFile struct {
	OriginalName string
	StagedPath   string
	Size         int64
}

// Outcome is the per-file result of a conversion attempt. Exactly one of
// Success or Failure is set; an Outcome is immutable once created.
type Outcome struct {
	Success *Success
	Failure *Failure
}

// Success holds converted content and the name it should be downloaded as.
type Success struct {
	Content       []byte
	SuggestedName string
}

// Failure records why a source file could not be converted.
type Failure struct {
	SourceName string
	Reason     string
}

// Artifact is a generated downloadable file (single conversion or archive)
// held in temporary storage until the retention sweeper reaps it.
type Artifact struct {
	DownloadID  string
	DisplayName string
	Path        string
	CreatedAt   time.Time
}

// HistoryEntry is a redacted summary of one completed batch, kept for
// observability only.
type HistoryEntry struct {
	DownloadID  string       `json:"download_id"`
	DisplayName string       `json:"display_name"`
	ItemCount   int          `json:"item_count"`
	Target      TargetFormat `json:"target"`
	Timestamp   time.Time    `json:"timestamp"`
}
