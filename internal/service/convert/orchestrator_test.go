package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"docmill/internal/domain"
	"docmill/internal/domain/models"
	domainSvc "docmill/internal/domain/services"
	"docmill/internal/formats"
)

// mockRegistry records registrations without a real output directory layout.
type mockRegistry struct {
	registered []registeredArtifact
}

type registeredArtifact struct {
	displayName string
	content     []byte
}

func (m *mockRegistry) Register(displayName string, content []byte) (models.Artifact, error) {
	m.registered = append(m.registered, registeredArtifact{displayName, content})
	return models.Artifact{
		DownloadID:  "0123456789abcdef",
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}, nil
}

func (m *mockRegistry) RegisterFile(displayName string, srcPath string) (models.Artifact, error) {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return models.Artifact{}, err
	}
	if err := os.Remove(srcPath); err != nil {
		return models.Artifact{}, err
	}
	m.registered = append(m.registered, registeredArtifact{displayName, content})
	return models.Artifact{
		DownloadID:  "0123456789abcdef",
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}, nil
}

func (m *mockRegistry) Resolve(downloadID, displayName string) (string, error) {
	return "", &domain.NotFoundError{Message: "download not found or expired"}
}

type mockHistory struct {
	recorded []models.HistoryEntry
}

func (m *mockHistory) Record(entry models.HistoryEntry) { m.recorded = append(m.recorded, entry) }
func (m *mockHistory) Recent() []models.HistoryEntry    { return m.recorded }

func newTestOrchestrator(t *testing.T) (*Orchestrator, *mockRegistry, *mockHistory) {
	t.Helper()

	registry, err := formats.NewRegistry()
	if err != nil {
		t.Fatalf("failed to load format registry: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockReg := &mockRegistry{}
	mockHist := &mockHistory{}

	return NewOrchestrator(OrchestratorDeps{
		Formats:          registry,
		Sniffer:          NewContentSniffer(registry),
		Extractors:       NewExtractorRegistry(),
		Encoders:         NewEncoderRegistry(),
		OCR:              NewDisabledOCR(),
		Packager:         NewPackager(t.TempDir(), logger),
		Registry:         mockReg,
		History:          mockHist,
		Logger:           logger,
		MaxFilesPerBatch: 10,
		MaxFileSizeBytes: 25 << 20,
	}), mockReg, mockHist
}

// stage writes content under a temp path and returns the upload descriptor
// the handler would have produced.
func stage(t *testing.T, name string, content []byte) models.UploadedFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staged-"+filepath.Base(name))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to stage %s: %v", name, err)
	}
	return models.UploadedFile{OriginalName: name, StagedPath: path, Size: int64(len(content))}
}

func TestOrchestrator_SingleSuccessIsDirectArtifact(t *testing.T) {
	orch, reg, hist := newTestOrchestrator(t)
	file := stage(t, "notes.txt", []byte("hello world"))

	result, err := orch.Run(context.Background(), domainSvc.BatchRequest{
		Files:  []models.UploadedFile{file},
		Target: "txt",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1", result.ItemCount)
	}
	if len(reg.registered) != 1 {
		t.Fatalf("registered %d artifacts, want 1", len(reg.registered))
	}
	got := reg.registered[0]
	if got.displayName != "notes.txt" {
		t.Errorf("display name = %q, want notes.txt", got.displayName)
	}
	if string(got.content) != "hello world" {
		t.Errorf("content = %q, want original text", got.content)
	}
	if strings.HasSuffix(got.displayName, ".zip") {
		t.Error("single success must not be archived")
	}
	if len(hist.recorded) != 1 {
		t.Errorf("recorded %d history entries, want 1", len(hist.recorded))
	}

	if _, err := os.Stat(file.StagedPath); !os.IsNotExist(err) {
		t.Error("staged upload survived the batch")
	}
}

func TestOrchestrator_TargetExtensionReplaced(t *testing.T) {
	orch, reg, _ := newTestOrchestrator(t)
	file := stage(t, "report.txt", []byte("body"))

	if _, err := orch.Run(context.Background(), domainSvc.BatchRequest{
		Files:  []models.UploadedFile{file},
		Target: "DOCX",
	}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(reg.registered) != 1 {
		t.Fatalf("registered %d artifacts, want 1", len(reg.registered))
	}
	if got := reg.registered[0].displayName; got != "report.docx" {
		t.Errorf("display name = %q, want report.docx", got)
	}

	text, err := NewDocxExtractor().Extract(context.Background(), reg.registered[0].content)
	if err != nil {
		t.Fatalf("artifact is not a readable DOCX: %v", err)
	}
	if text != "body" {
		t.Errorf("round-tripped text = %q, want body", text)
	}
}

func TestOrchestrator_MixedBatchArchivesOnlySuccesses(t *testing.T) {
	orch, reg, _ := newTestOrchestrator(t)
	files := []models.UploadedFile{
		stage(t, "a.txt", []byte("alpha")),
		stage(t, "binary.txt", []byte("bad\x00content")),
		stage(t, "b.txt", []byte("beta")),
	}

	result, err := orch.Run(context.Background(), domainSvc.BatchRequest{
		Files:  files,
		Target: "txt",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", result.ItemCount)
	}
	failures := 0
	for _, outcome := range result.Outcomes {
		if outcome.Failure != nil {
			failures++
			if outcome.Failure.SourceName != "binary.txt" {
				t.Errorf("failure recorded for %q, want binary.txt", outcome.Failure.SourceName)
			}
		}
	}
	if failures != 1 {
		t.Errorf("recorded %d failures, want 1", failures)
	}

	if len(reg.registered) != 1 {
		t.Fatalf("registered %d artifacts, want 1", len(reg.registered))
	}
	got := reg.registered[0]
	if !strings.HasSuffix(got.displayName, ".zip") {
		t.Fatalf("multi-success artifact %q is not an archive", got.displayName)
	}

	zr, err := zip.NewReader(bytes.NewReader(got.content), int64(len(got.content)))
	if err != nil {
		t.Fatalf("artifact is not a readable archive: %v", err)
	}
	entries := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read entry %s: %v", f.Name, err)
		}
		entries[f.Name] = string(data)
	}
	want := map[string]string{"a.txt": "alpha", "b.txt": "beta"}
	if len(entries) != len(want) {
		t.Fatalf("archive holds %d entries, want %d: %v", len(entries), len(want), entries)
	}
	for name, content := range want {
		if entries[name] != content {
			t.Errorf("entry %s = %q, want %q", name, entries[name], content)
		}
	}
}

func TestOrchestrator_AllFailedReportsFirstReason(t *testing.T) {
	orch, reg, hist := newTestOrchestrator(t)
	files := []models.UploadedFile{
		stage(t, "first.pdf", []byte("not a pdf at all")),
		stage(t, "second.txt", []byte("also\x00bad")),
	}

	_, err := orch.Run(context.Background(), domainSvc.BatchRequest{
		Files:  files,
		Target: "txt",
	})
	if err == nil {
		t.Fatal("expected batch failure when every file fails")
	}
	if !errors.Is(err, domain.ErrUnprocessable) {
		t.Errorf("error = %v, want an unprocessable-content error", err)
	}
	if !strings.Contains(err.Error(), "first.pdf") {
		t.Errorf("error %q does not carry the first file's failure", err)
	}
	if strings.Contains(err.Error(), "second.txt") {
		t.Errorf("error %q carries a later failure instead of the first", err)
	}

	if len(reg.registered) != 0 {
		t.Error("failed batch registered an artifact")
	}
	if len(hist.recorded) != 0 {
		t.Error("failed batch recorded history")
	}
	for _, file := range files {
		if _, err := os.Stat(file.StagedPath); !os.IsNotExist(err) {
			t.Errorf("staged upload %s survived a failed batch", file.OriginalName)
		}
	}
}

func TestOrchestrator_UnsupportedTargetFailsEveryFile(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t)
	files := []models.UploadedFile{
		stage(t, "a.txt", []byte("alpha")),
		stage(t, "b.txt", []byte("beta")),
	}

	_, err := orch.Run(context.Background(), domainSvc.BatchRequest{
		Files:  files,
		Target: "pdf",
	})
	if err == nil {
		t.Fatal("expected failure for an unsupported target")
	}
	if !errors.Is(err, domain.ErrUnprocessable) {
		t.Errorf("error = %v, want an unprocessable-content error", err)
	}
	if !strings.Contains(err.Error(), "unsupported target format") {
		t.Errorf("error = %q, want the unsupported-target diagnostic", err)
	}
}

func TestOrchestrator_ImageFilesGetOCRDiagnostic(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t)
	file := stage(t, "scan.png", []byte{0x89, 'P', 'N', 'G'})

	_, err := orch.Run(context.Background(), domainSvc.BatchRequest{
		Files:  []models.UploadedFile{file},
		Target: "txt",
	})
	if err == nil {
		t.Fatal("expected failure for an image-only batch")
	}
	if !strings.Contains(err.Error(), "OCR is not enabled") {
		t.Errorf("error = %q, want the OCR-not-enabled diagnostic", err)
	}
}

func TestOrchestrator_InputRejection(t *testing.T) {
	manyFiles := make([]models.UploadedFile, 11)
	for i := range manyFiles {
		manyFiles[i] = models.UploadedFile{OriginalName: "f.txt", StagedPath: "/nonexistent", Size: 1}
	}

	tests := []struct {
		name   string
		files  []models.UploadedFile
		target string
	}{
		{"empty batch", nil, "txt"},
		{"too many files", manyFiles, "txt"},
		{"oversized file", []models.UploadedFile{
			{OriginalName: "big.txt", StagedPath: "/nonexistent", Size: 26 << 20},
		}, "txt"},
		{"disallowed extension", []models.UploadedFile{
			{OriginalName: "malware.exe", StagedPath: "/nonexistent", Size: 1},
		}, "txt"},
		{"missing target", []models.UploadedFile{
			{OriginalName: "a.txt", StagedPath: "/nonexistent", Size: 1},
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch, reg, _ := newTestOrchestrator(t)
			_, err := orch.Run(context.Background(), domainSvc.BatchRequest{
				Files:  tt.files,
				Target: tt.target,
			})
			if err == nil {
				t.Fatal("expected input rejection")
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want a validation error", err)
			}
			if len(reg.registered) != 0 {
				t.Error("rejected batch registered an artifact")
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		original string
		target   models.TargetFormat
		want     string
	}{
		{"report.pdf", models.TargetTxt, "report.txt"},
		{"report.pdf", models.TargetDocx, "report.docx"},
		{"archive.tar.txt", models.TargetDocx, "archive.tar.docx"},
		{"noext", models.TargetTxt, "noext.txt"},
		{"dir/nested.docx", models.TargetTxt, "nested.txt"},
	}
	for _, tt := range tests {
		if got := outputName(tt.original, tt.target); got != tt.want {
			t.Errorf("outputName(%q, %s) = %q, want %q", tt.original, tt.target, got, tt.want)
		}
	}
}
