package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/navkeep/submitd/internal/domain"
	"github.com/navkeep/submitd/internal/httpserver/deps"
	"github.com/navkeep/submitd/internal/ingest"
	"github.com/navkeep/submitd/internal/logger"
)

// maxBodyBytes caps the request body; a submission is a handful of strings.
const maxBodyBytes = 64 << 10

// SubmitWebsite handles POST /api/submit-website.
func SubmitWebsite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub domain.Submission
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(body).Decode(&sub); err != nil {
			writeJSON(w, http.StatusBadRequest, submitResponse{
				Success: false,
				Message: "invalid request body",
			})
			return
		}

		res, err := d.Ingestor.Submit(r.Context(), sub)
		if err != nil {
			writeFailure(w, d, err)
			return
		}

		meta := d.Meta.Get()
		writeJSON(w, http.StatusOK, submitResponse{
			Success:      true,
			Message:      fmt.Sprintf("submission received, we will review it within %s", meta.ReviewWindow),
			SubmissionID: res.SubmissionID,
		})
	}
}

// writeFailure maps the ingest error taxonomy onto the endpoint's status
// classes: bad input and duplicates are the caller's fault (400), everything
// else is ours (500, with the diagnostic error text embedded).
func writeFailure(w http.ResponseWriter, d deps.Deps, err error) {
	var ie *ingest.Error
	message := "submission failed"
	diagnostic := err.Error()
	if e, ok := err.(*ingest.Error); ok { //nolint:errorlint // Submit returns *Error directly
		ie = e
		message = e.Message
	}

	switch ingest.KindOf(err) {
	case ingest.KindValidation, ingest.KindDuplicate:
		writeJSON(w, http.StatusBadRequest, submitResponse{
			Success: false,
			Message: message,
		})
	default:
		d.Logger.Error("submission failed", logger.Error(err))
		if ie != nil && ie.Err != nil {
			diagnostic = ie.Err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, submitResponse{
			Success: false,
			Message: message,
			Error:   diagnostic,
		})
	}
}
