package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"docmill/internal/domain"
	"docmill/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Unexpected faults
// are logged with detail server-side and surfaced as an opaque 500; no
// internal detail leaks to the caller.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnprocessable):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Error("internal error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
