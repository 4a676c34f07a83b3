package httpapi

import (
	"net/http"
	"strconv"

	"internhunt-engine/internal/store"
)

type PostingsHandler struct {
	Corpus Corpus
}

// List serves GET /postings?search=&source=&company=&cursor=&numItems=.
func (h PostingsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var req store.PageRequest
	req.Cursor = q.Get("cursor")
	if s := q.Get("numItems"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, "bad_num_items", "numItems must be a non-negative integer")
			return
		}
		req.NumItems = n
	}

	page, err := h.Corpus.Query(r.Context(), store.Criteria{
		Search:    q.Get("search"),
		Source:    q.Get("source"),
		Companies: queryList(r, "company"),
	}, req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

func (h PostingsHandler) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Corpus.ListDistinctCompanies(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, companies)
}
