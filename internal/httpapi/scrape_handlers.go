package httpapi

import (
	"net/http"
)

type ScrapeHandler struct {
	Runner Runner
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Runner.Status())
}

// Run scrapes synchronously and answers with the full report. A second
// trigger while one is running gets 409.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Runner.Run(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, rep)
}
