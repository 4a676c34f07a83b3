package httpapi

import (
	"encoding/json"
	"net/http"
)

type SecretsHandler struct {
	Set    func(token string) error
	Delete func() error
}

type setTokenReq struct {
	Token string `json:"token"`
}

func (h SecretsHandler) SetGitHubToken(w http.ResponseWriter, r *http.Request) {
	if h.Set == nil {
		WriteError(w, r, http.StatusNotImplemented, "no_keychain", "token storage is not available")
		return
	}
	var req setTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.Set(req.Token); err != nil {
		WriteError(w, r, http.StatusBadRequest, "token_rejected", "failed to store token: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteGitHubToken(w http.ResponseWriter, r *http.Request) {
	if h.Delete == nil {
		WriteError(w, r, http.StatusNotImplemented, "no_keychain", "token storage is not available")
		return
	}
	if err := h.Delete(); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
