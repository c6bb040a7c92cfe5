package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docmill/internal/domain"
	"docmill/internal/domain/models"
	domainSvc "docmill/internal/domain/services"
	"docmill/internal/formats"
)

// Orchestrator runs one conversion batch: per-file sniff, extract and encode
// with failure aggregation, then single-file or archive packaging, artifact
// registration and a history record.
//
// Files within a batch are processed sequentially; concurrent batches run
// independently. All shared state (artifact registry, history log) is
// internally synchronized.
type Orchestrator struct {
	formats    *formats.Registry
	sniffer    domainSvc.Sniffer
	extractors *ExtractorRegistry
	encoders   *EncoderRegistry
	ocr        domainSvc.OCREngine
	packager   *Packager
	registry   domainSvc.ArtifactRegistry
	history    domainSvc.HistoryLog
	logger     *slog.Logger

	maxFiles    int
	maxFileSize int64
}

// OrchestratorDeps bundles the collaborators an Orchestrator is wired with.
type OrchestratorDeps struct {
	Formats    *formats.Registry
	Sniffer    domainSvc.Sniffer
	Extractors *ExtractorRegistry
	Encoders   *EncoderRegistry
	OCR        domainSvc.OCREngine
	Packager   *Packager
	Registry   domainSvc.ArtifactRegistry
	History    domainSvc.HistoryLog
	Logger     *slog.Logger

	MaxFilesPerBatch int
	MaxFileSizeBytes int64
}

// NewOrchestrator creates a batch orchestrator.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		formats:     deps.Formats,
		sniffer:     deps.Sniffer,
		extractors:  deps.Extractors,
		encoders:    deps.Encoders,
		ocr:         deps.OCR,
		packager:    deps.Packager,
		registry:    deps.Registry,
		history:     deps.History,
		logger:      deps.Logger,
		maxFiles:    deps.MaxFilesPerBatch,
		maxFileSize: deps.MaxFileSizeBytes,
	}
}

// ArchiveDisplayName names the ZIP produced for multi-success batches.
func ArchiveDisplayName(now time.Time) string {
	return fmt.Sprintf("converted-%s.zip", now.Format("20060102-150405"))
}

// Run executes one batch. Every staged source file is deleted when the batch
// finishes, on every exit path, whether or not it contributed to a success.
func (o *Orchestrator) Run(ctx context.Context, req domainSvc.BatchRequest) (*domainSvc.BatchResult, error) {
	defer o.cleanupStaged(req.Files)

	if err := o.validateRequest(&req); err != nil {
		return nil, err
	}

	target, targetErr := o.formats.ParseTarget(req.Target)

	outcomes := make([]models.Outcome, 0, len(req.Files))
	for _, file := range req.Files {
		var outcome models.Outcome
		if targetErr != nil {
			// An unrecognized target fails every file individually rather
			// than aborting the batch, preserving partial diagnostics.
			outcome = failureOutcome(file.OriginalName, targetErr.Error())
		} else {
			outcome = o.convertFile(ctx, file, target)
		}

		if outcome.Failure != nil {
			o.logger.Warn("file conversion failed",
				"file", file.OriginalName,
				"reason", outcome.Failure.Reason,
			)
		}
		outcomes = append(outcomes, outcome)
	}

	successes := collectSuccesses(outcomes)
	if len(successes) == 0 {
		// First-failure-wins: the batch error carries a single
		// representative diagnostic. The full outcome set is in the log.
		return nil, &domain.UnprocessableError{Message: firstFailureReason(outcomes)}
	}

	artifact, err := o.packageAndRegister(successes)
	if err != nil {
		return nil, fmt.Errorf("failed to package batch output: %w", err)
	}

	o.history.Record(models.HistoryEntry{
		DownloadID:  artifact.DownloadID,
		DisplayName: artifact.DisplayName,
		ItemCount:   len(successes),
		Target:      target,
		Timestamp:   artifact.CreatedAt,
	})

	o.logger.Info("batch complete",
		"download_id", artifact.DownloadID,
		"display_name", artifact.DisplayName,
		"total_files", len(req.Files),
		"converted", len(successes),
		"failed", len(req.Files)-len(successes),
		"target", target,
	)

	return &domainSvc.BatchResult{
		Artifact:  artifact,
		ItemCount: len(successes),
		Outcomes:  outcomes,
	}, nil
}

// validateRequest applies the input-rejection rules: empty batch, oversized
// batch, oversized files and extensions outside the allow-list are rejected
// before any conversion logic runs.
func (o *Orchestrator) validateRequest(req *domainSvc.BatchRequest) error {
	err := validation.Errors{
		"files": validation.Validate(req.Files,
			validation.Required.Error("no files provided"),
			validation.Length(1, o.maxFiles).Error(fmt.Sprintf("a batch may contain at most %d files", o.maxFiles)),
		),
		"target": validation.Validate(req.Target, validation.Required.Error("target format is required")),
	}.Filter()
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}

	for _, file := range req.Files {
		if file.Size > o.maxFileSize {
			return &domain.ValidationError{
				Message: fmt.Sprintf("%s exceeds the maximum file size of %d MB", file.OriginalName, o.maxFileSize>>20),
			}
		}
		ext := strings.ToLower(filepath.Ext(file.OriginalName))
		if !o.formats.Allowed(ext) {
			return &domain.ValidationError{
				Message: fmt.Sprintf("%s has an unsupported file extension", file.OriginalName),
			}
		}
	}
	return nil
}

// convertFile runs sniff, extract, encode for a single file. Failures are
// recorded as outcomes and never propagate; only unexpected faults (staged
// file unreadable mid-batch and similar) are also just outcomes here, since
// the batch must keep walking the remaining files.
func (o *Orchestrator) convertFile(ctx context.Context, file models.UploadedFile, target models.TargetFormat) models.Outcome {
	data, err := os.ReadFile(file.StagedPath)
	if err != nil {
		return failureOutcome(file.OriginalName, fmt.Sprintf("failed to read uploaded file: %v", err))
	}

	kind, err := o.sniffer.Classify(data, file.OriginalName)
	if err != nil {
		return failureOutcome(file.OriginalName, err.Error())
	}

	var text string
	if kind == models.KindImage {
		// Image uploads are accepted only to produce this diagnostic; the
		// disabled engine fails every request until a real one is wired in.
		text, err = o.ocr.Recognize(ctx, data)
	} else {
		extractor := o.extractors.Get(kind)
		if extractor == nil {
			return failureOutcome(file.OriginalName, fmt.Sprintf("no extractor for %s files", kind))
		}
		text, err = extractor.Extract(ctx, data)
	}
	if err != nil {
		return failureOutcome(file.OriginalName, err.Error())
	}

	encoder := o.encoders.Get(target)
	if encoder == nil {
		return failureOutcome(file.OriginalName, fmt.Sprintf("unsupported target format %q", target))
	}
	content, err := encoder.Encode(text)
	if err != nil {
		return failureOutcome(file.OriginalName, fmt.Sprintf("failed to encode %s output: %v", target, err))
	}

	return models.Outcome{Success: &models.Success{
		Content:       content,
		SuggestedName: outputName(file.OriginalName, target),
	}}
}

// packageAndRegister promotes a single success directly to an artifact, or
// streams multiple successes into one archive first. The archive is fully
// flushed before registration; no partial archive is ever registered.
func (o *Orchestrator) packageAndRegister(successes []models.Success) (models.Artifact, error) {
	if len(successes) == 1 {
		return o.registry.Register(successes[0].SuggestedName, successes[0].Content)
	}

	archivePath, err := o.packager.Package(successes)
	if err != nil {
		return models.Artifact{}, err
	}
	return o.registry.RegisterFile(ArchiveDisplayName(time.Now()), archivePath)
}

// cleanupStaged deletes every staged upload. Best-effort: a failed removal
// is logged and the rest are still attempted.
func (o *Orchestrator) cleanupStaged(files []models.UploadedFile) {
	for _, file := range files {
		if err := os.Remove(file.StagedPath); err != nil && !os.IsNotExist(err) {
			o.logger.Warn("failed to remove staged upload",
				"path", file.StagedPath,
				"error", err,
			)
		}
	}
}

// outputName derives the download name: original base name with its
// extension replaced by the target's.
func outputName(originalName string, target models.TargetFormat) string {
	base := filepath.Base(originalName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + target.Extension()
}

func failureOutcome(name, reason string) models.Outcome {
	return models.Outcome{Failure: &models.Failure{SourceName: name, Reason: reason}}
}

func collectSuccesses(outcomes []models.Outcome) []models.Success {
	successes := make([]models.Success, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Success != nil {
			successes = append(successes, *outcome.Success)
		}
	}
	return successes
}

func firstFailureReason(outcomes []models.Outcome) string {
	for _, outcome := range outcomes {
		if outcome.Failure != nil {
			return outcome.Failure.Reason
		}
	}
	return "conversion failed"
}
