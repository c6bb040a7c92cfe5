package convert

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/flate"

	"docmill/internal/domain/models"
)

// Packager streams successful outputs into a single ZIP archive at maximum
// compression. Packaging is synchronous from the batch's perspective: the
// archive is finalized and flushed to storage before Package returns.
type Packager struct {
	outputDir string
	logger    *slog.Logger
}

// NewPackager creates a packager writing archives into outputDir.
func NewPackager(outputDir string, logger *slog.Logger) *Packager {
	return &Packager{outputDir: outputDir, logger: logger}
}

// Package writes one archive entry per success, named by its suggested
// display name, and returns the path of the finalized archive file.
func (p *Packager) Package(successes []models.Success) (string, error) {
	f, err := os.CreateTemp(p.outputDir, "archive-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	path := f.Name()

	if err := p.writeArchive(f, successes); err != nil {
		f.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			p.logger.Warn("failed to remove partial archive", "path", path, "error", rmErr)
		}
		return "", err
	}

	// Flush to storage before the orchestrator registers the artifact; a
	// partially written archive must never become downloadable.
	if err := f.Sync(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to flush archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close archive: %w", err)
	}

	p.logger.Debug("archive packaged", "path", path, "entries", len(successes))
	return path, nil
}

func (p *Packager) writeArchive(w io.Writer, successes []models.Success) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, success := range successes {
		entry, err := zw.Create(success.SuggestedName)
		if err != nil {
			return fmt.Errorf("failed to create archive entry %s: %w", success.SuggestedName, err)
		}
		if _, err := entry.Write(success.Content); err != nil {
			return fmt.Errorf("failed to write archive entry %s: %w", success.SuggestedName, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
