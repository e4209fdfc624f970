package handlers

import (
	"encoding/json"
	"net/http"
)

// submitResponse is the public contract of the submit endpoint: a success
// flag and a human-readable message, plus the submission id on success and
// the diagnostic error text on 500-class failures.
type submitResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	SubmissionID string `json:"submissionId,omitempty"`
	Error        string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
