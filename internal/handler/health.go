package handler

import (
	"net/http"

	"docmill/internal/httputil"
)

// HealthCheck is a trivial liveness probe with no side effects.
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
