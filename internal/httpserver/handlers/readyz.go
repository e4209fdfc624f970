package handlers

import (
	"net/http"

	"github.com/navkeep/submitd/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready   bool   `json:"ready"`
	Missing string `json:"missing,omitempty"`
}

// Readyz reports readiness to take submissions. The service still answers
// requests without store config (each one fails with a 500), so readiness
// rather than liveness carries that signal.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		if !d.StoreConfigured {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{
			Ready:   d.StoreConfigured,
			Missing: d.MissingStoreVar,
		})
	}
}
