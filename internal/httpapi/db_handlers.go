package httpapi

import (
	"net"
	"net/http"
)

type DBHandler struct {
	Corpus Corpus
}

// Checkpoint is loopback-only.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
		WriteError(w, r, http.StatusForbidden, "forbidden", "checkpoint is only allowed from localhost")
		return
	}

	if err := h.Corpus.Checkpoint(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
