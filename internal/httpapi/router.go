package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// NewMux returns the routes without middleware.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	ph := PostingsHandler{Corpus: d.Corpus}
	mux.HandleFunc("/postings", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.List,
	}))
	mux.HandleFunc("/postings/companies", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Companies,
	}))

	sch := ScrapeHandler{Runner: d.Runner}
	mux.HandleFunc("/scrape", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  sch.Run,
		http.MethodPost: sch.Run,
	}))
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))

	ch := ConfigHandler{Cfg: d.Config, Path: d.ConfigPath}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
	}))

	sh := SecretsHandler{Set: d.SetToken, Delete: d.DeleteToken}
	mux.HandleFunc("/secrets/github", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   sh.SetGitHubToken,
		http.MethodDelete: sh.DeleteGitHubToken,
	}))

	dh := DBHandler{Corpus: d.Corpus}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Checkpoint,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	hh := HealthHandler{Corpus: d.Corpus}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics)
	}
	return mux
}

// NewHandler wraps NewMux in the standard middleware stack.
func NewHandler(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return Chain(NewMux(d), RequestID, Recover(log), AccessLog(log), Cors)
}
