package handler

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"docmill/internal/config"
	"docmill/internal/domain/models"
	domainSvc "docmill/internal/domain/services"
	"docmill/internal/httputil"
)

// ConvertHandler handles batch conversion HTTP requests.
//
// Uploads are staged to disk under uuid-prefixed names before the
// orchestrator runs; the orchestrator deletes the staged copies when the
// batch finishes, on every exit path.
type ConvertHandler struct {
	batches   domainSvc.BatchService
	uploadDir string
	logger    *slog.Logger
}

// NewConvertHandler creates a new conversion handler.
func NewConvertHandler(batches domainSvc.BatchService, uploadDir string, logger *slog.Logger) *ConvertHandler {
	return &ConvertHandler{
		batches:   batches,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// ConvertResponse references the artifact produced by a successful batch.
type ConvertResponse struct {
	DownloadID  string `json:"download_id"`
	DisplayName string `json:"display_name"`
	ItemCount   int    `json:"item_count"`
	DownloadURL string `json:"download_url"`
}

// Convert handles a batch conversion request.
// POST /api/convert
//
// Multipart form fields:
//   - files: one or more source files
//   - target: target format (txt or docx, case-insensitive)
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MultipartMemoryBudget); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	fileHeaders := r.MultipartForm.File["files"]
	target := r.FormValue("target")

	h.logger.Info("starting batch",
		"file_count", len(fileHeaders),
		"target", target,
	)

	staged, err := h.stageUploads(fileHeaders)
	if err != nil {
		h.logger.Error("failed to stage uploads", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "failed to store uploaded files")
		return
	}

	result, err := h.batches.Run(r.Context(), domainSvc.BatchRequest{
		Files:  staged,
		Target: target,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ConvertResponse{
		DownloadID:  result.Artifact.DownloadID,
		DisplayName: result.Artifact.DisplayName,
		ItemCount:   result.ItemCount,
		DownloadURL: fmt.Sprintf("/download/%s/%s", result.Artifact.DownloadID, result.Artifact.DisplayName),
	})
}

// stageUploads copies each upload into the staging directory. Staged names
// are uuid-prefixed so concurrent batches never collide on equal filenames.
func (h *ConvertHandler) stageUploads(fileHeaders []*multipart.FileHeader) ([]models.UploadedFile, error) {
	staged := make([]models.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		src, err := fh.Open()
		if err != nil {
			removeStaged(staged)
			return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}

		name := uuid.NewString() + "-" + filepath.Base(fh.Filename)
		path := filepath.Join(h.uploadDir, name)
		dst, err := os.Create(path)
		if err != nil {
			src.Close()
			removeStaged(staged)
			return nil, fmt.Errorf("failed to create staged file: %w", err)
		}

		_, err = io.Copy(dst, src)
		src.Close()
		if closeErr := dst.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			removeStaged(staged)
			return nil, fmt.Errorf("failed to stage upload %s: %w", fh.Filename, err)
		}

		staged = append(staged, models.UploadedFile{
			OriginalName: fh.Filename,
			StagedPath:   path,
			Size:         fh.Size,
		})
	}
	return staged, nil
}

func removeStaged(files []models.UploadedFile) {
	for _, f := range files {
		_ = os.Remove(f.StagedPath)
	}
}
