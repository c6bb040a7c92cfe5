package handler

import (
	"log/slog"
	"net/http"

	"docmill/internal/domain/models"
	domainSvc "docmill/internal/domain/services"
	"docmill/internal/httputil"
)

// HistoryHandler exposes the recent-conversion log.
type HistoryHandler struct {
	history domainSvc.HistoryLog
	logger  *slog.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history domainSvc.HistoryLog, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, logger: logger}
}

// HistoryResponse lists recent conversion events, newest first. Entries are
// summaries only; converted content is never exposed here.
type HistoryResponse struct {
	Entries []models.HistoryEntry `json:"entries"`
}

// Recent returns up to the history capacity of recent entries.
// GET /api/history
func (h *HistoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, HistoryResponse{Entries: h.history.Recent()})
}
