package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	domainSvc "docmill/internal/domain/services"
	"docmill/internal/httputil"
)

// DownloadHandler streams registered artifacts to clients. The opaque
// download id in the URL is the only access control; artifacts remain
// fetchable repeatedly until the retention sweeper reaps them.
type DownloadHandler struct {
	registry domainSvc.ArtifactRegistry
	logger   *slog.Logger
}

// NewDownloadHandler creates a new download handler.
func NewDownloadHandler(registry domainSvc.ArtifactRegistry, logger *slog.Logger) *DownloadHandler {
	return &DownloadHandler{registry: registry, logger: logger}
}

// Download resolves and streams one artifact.
// GET /download/{id}/{name}
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	downloadID := r.PathValue("id")
	displayName := r.PathValue("name")
	if downloadID == "" || displayName == "" {
		httputil.RespondError(w, http.StatusBadRequest, "download id and name are required")
		return
	}

	path, err := h.registry.Resolve(downloadID, displayName)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Debug("serving download",
		"download_id", downloadID,
		"display_name", displayName,
	)

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", displayName))
	http.ServeFile(w, r, path)
}
