package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"

	"internhunt-engine/internal/ingest"
	"internhunt-engine/internal/store"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeErr maps known sentinels to client errors; anything else is a 500
// with the message hidden.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrBadCursor):
		WriteError(w, r, http.StatusBadRequest, "bad_cursor", err.Error())
	case errors.Is(err, ingest.ErrRunInProgress):
		WriteError(w, r, http.StatusConflict, "run_in_progress", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
