package httpapi

import (
	"net/http"
	"path/filepath"

	"internhunt-engine/internal/config"
)

// ConfigHandler exposes the loaded config read-only; edits go through the
// file and a restart.
type ConfigHandler struct {
	Cfg  config.Config
	Path string
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(h.Cfg)
	abs, _ := filepath.Abs(h.Path)
	WriteJSON(w, http.StatusOK, map[string]any{
		"path":       abs,
		"config":     h.Cfg,
		"validation": vr,
	})
}
