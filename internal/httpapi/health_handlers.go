package httpapi

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	Corpus Corpus
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	n, err := h.Corpus.Count(r.Context())
	if err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": "store unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"postings": n,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
