// Package artifact owns generated artifacts: the download-id mapping with
// path containment, and the time-based retention sweep.
package artifact

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"docmill/internal/config"
	"docmill/internal/domain"
	"docmill/internal/domain/models"
)

// Registry maps opaque download ids to stored artifacts. The id is generated
// from a cryptographic source and is the sole access-control mechanism for
// downloads; there is no authentication.
//
// The mapping is append-only and never pruned: when the sweeper reaps an
// artifact file, a later resolve simply reports not-found. Unifying the two
// lifetimes would need the registry to co-own TTL bookkeeping; the
// dependency-free sweep is the accepted trade-off here.
type Registry struct {
	outputDir string
	logger    *slog.Logger

	mu       sync.RWMutex
	mappings map[string]models.Artifact
}

// NewRegistry creates a registry storing artifacts under outputDir.
func NewRegistry(outputDir string, logger *slog.Logger) (*Registry, error) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	return &Registry{
		outputDir: abs,
		logger:    logger,
		mappings:  make(map[string]models.Artifact),
	}, nil
}

// Register stores content as a new artifact and returns its mapping.
func (r *Registry) Register(displayName string, content []byte) (models.Artifact, error) {
	id, err := newDownloadID()
	if err != nil {
		return models.Artifact{}, err
	}

	path := filepath.Join(r.outputDir, id+"-"+displayName)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return models.Artifact{}, fmt.Errorf("failed to store artifact: %w", err)
	}

	return r.remember(id, displayName, path), nil
}

// RegisterFile adopts an already written file (an archive the packager
// finalized) as a new artifact, renaming it into the mapped location.
func (r *Registry) RegisterFile(displayName string, srcPath string) (models.Artifact, error) {
	id, err := newDownloadID()
	if err != nil {
		return models.Artifact{}, err
	}

	path := filepath.Join(r.outputDir, id+"-"+displayName)
	if err := os.Rename(srcPath, path); err != nil {
		return models.Artifact{}, fmt.Errorf("failed to store artifact: %w", err)
	}

	return r.remember(id, displayName, path), nil
}

// Resolve maps (downloadID, displayName) back to the artifact's on-disk
// path. The joined path must stay strictly inside the output directory;
// display names crafted to escape it are rejected regardless of whether a
// file exists at the escaped location.
func (r *Registry) Resolve(downloadID, displayName string) (string, error) {
	path, err := filepath.Abs(filepath.Join(r.outputDir, downloadID+"-"+displayName))
	if err != nil {
		return "", &domain.ValidationError{Message: "invalid download path"}
	}
	if !strings.HasPrefix(path, r.outputDir+string(filepath.Separator)) {
		r.logger.Warn("download path rejected",
			"download_id", downloadID,
			"display_name", displayName,
		)
		return "", &domain.ValidationError{Message: "invalid download path"}
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		// Covers both unknown ids and artifacts the sweeper already reaped.
		return "", &domain.NotFoundError{Message: "download not found or expired"}
	}
	return path, nil
}

func (r *Registry) remember(id, displayName, path string) models.Artifact {
	artifact := models.Artifact{
		DownloadID:  id,
		DisplayName: displayName,
		Path:        path,
		CreatedAt:   time.Now(),
	}

	r.mu.Lock()
	r.mappings[id] = artifact
	r.mu.Unlock()

	r.logger.Debug("artifact registered",
		"download_id", id,
		"display_name", displayName,
	)
	return artifact
}

// newDownloadID returns a fixed-length unguessable identifier.
func newDownloadID() (string, error) {
	buf := make([]byte, config.DownloadIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate download id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
