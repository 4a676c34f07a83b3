package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"internhunt-engine/internal/config"
	"internhunt-engine/internal/domain"
	"internhunt-engine/internal/events"
	"internhunt-engine/internal/ingest"
	"internhunt-engine/internal/metrics"
	"internhunt-engine/internal/store"
)

type fakeRunner struct {
	rep ingest.Report
	err error
	st  ingest.Status
}

func (f *fakeRunner) Run(context.Context) (ingest.Report, error) { return f.rep, f.err }
func (f *fakeRunner) Status() ingest.Status                      { return f.st }

func nopLog() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func seededCorpus(t *testing.T) *store.DB {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	base := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	_, err = db.InsertMany(ctx, []domain.Posting{
		{Company: "Acme", Title: "SWE Intern", ApplicationLink: "https://a", CreatedAt: base},
		{Company: "Acme", Title: "Data Intern", ApplicationLink: "https://a/2", CreatedAt: base.Add(-time.Hour)},
		{Company: "Initech", Title: "ML Intern", ApplicationLink: "https://i", CreatedAt: base.Add(-2 * time.Hour)},
	}, "SimplifyJobs")
	require.NoError(t, err)
	return db
}

func newTestHandler(t *testing.T, d Deps) http.Handler {
	t.Helper()
	if d.Corpus == nil {
		d.Corpus = seededCorpus(t)
	}
	if d.Runner == nil {
		d.Runner = &fakeRunner{}
	}
	if d.Hub == nil {
		d.Hub = events.NewHub()
	}
	return NewHandler(d)
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestListPostingsPaginates(t *testing.T) {
	h := newTestHandler(t, Deps{})

	rec := do(h, http.MethodGet, "/postings?numItems=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var page struct {
		Page           []domain.Posting `json:"page"`
		IsDone         bool             `json:"isDone"`
		ContinueCursor string           `json:"continueCursor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Page, 2)
	assert.False(t, page.IsDone)
	assert.Equal(t, "SWE Intern", page.Page[0].Title)
	assert.Equal(t, "SimplifyJobs", page.Page[0].Source)

	rec = do(h, http.MethodGet, "/postings?numItems=2&cursor="+page.ContinueCursor)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Page, 1)
	assert.True(t, page.IsDone)
	assert.Equal(t, "Initech", page.Page[0].Company)
}

func TestListPostingsByCompany(t *testing.T) {
	h := newTestHandler(t, Deps{})

	rec := do(h, http.MethodGet, "/postings?company=Acme,Globex")
	require.Equal(t, http.StatusOK, rec.Code)

	var page store.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Page, 2)
	for _, p := range page.Page {
		assert.Equal(t, "Acme", p.Company)
	}
	assert.True(t, page.Page[0].CreatedAt.After(page.Page[1].CreatedAt))
	assert.True(t, page.IsDone)
}

func TestListPostingsBadInput(t *testing.T) {
	h := newTestHandler(t, Deps{})

	rec := do(h, http.MethodGet, "/postings?cursor=garbage%21")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var e APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "bad_cursor", e.Error.Code)
	assert.NotEmpty(t, e.Error.RequestID)

	rec = do(h, http.MethodGet, "/postings?numItems=lots")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPut, "/postings")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestCompanies(t *testing.T) {
	h := newTestHandler(t, Deps{})

	rec := do(h, http.MethodGet, "/postings/companies")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["Acme","Initech"]`, rec.Body.String())
}

func TestScrapeRun(t *testing.T) {
	r := &fakeRunner{rep: ingest.Report{Sources: []ingest.SourceReport{{Source: "SimplifyJobs", Inserted: 2, Phase: ingest.PhaseDone}}}}
	h := newTestHandler(t, Deps{Runner: r})

	for _, m := range []string{http.MethodGet, http.MethodPost} {
		rec := do(h, m, "/scrape")
		require.Equal(t, http.StatusOK, rec.Code)
		var rep ingest.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
		require.Len(t, rep.Sources, 1)
		assert.Equal(t, 2, rep.Sources[0].Inserted)
	}

	r.err = ingest.ErrRunInProgress
	rec := do(h, http.MethodPost, "/scrape")
	assert.Equal(t, http.StatusConflict, rec.Code)

	r.err = errors.New("boom")
	rec = do(h, http.MethodPost, "/scrape")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestScrapeStatus(t *testing.T) {
	r := &fakeRunner{st: ingest.Status{Running: true, LastInserted: 4}}
	h := newTestHandler(t, Deps{Runner: r})

	rec := do(h, http.MethodGet, "/scrape/status")
	require.Equal(t, http.StatusOK, rec.Code)
	var st ingest.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.True(t, st.Running)
	assert.Equal(t, 4, st.LastInserted)
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg).SetCorpus(3)
	h := newTestHandler(t, Deps{Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})})

	rec := do(h, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, 3.0, body["postings"])

	rec = do(h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "internhunt_corpus_postings 3")
}

func TestConfigView(t *testing.T) {
	h := newTestHandler(t, Deps{Config: config.Default(), ConfigPath: "config.yml"})

	rec := do(h, http.MethodGet, "/config")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Path       string            `json:"path"`
		Validation config.Validation `json:"validation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, filepath.IsAbs(body.Path))
	assert.Empty(t, body.Validation.Errors)
}

func TestSecrets(t *testing.T) {
	var stored string
	h := newTestHandler(t, Deps{
		SetToken: func(tok string) error {
			if tok == "" {
				return errors.New("token is empty")
			}
			stored = tok
			return nil
		},
		DeleteToken: func() error { stored = ""; return nil },
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/secrets/github", strings.NewReader(`{"token":"ghp_x"}`)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "ghp_x", stored)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/secrets/github", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodDelete, "/secrets/github")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, stored)

	rec = do(newTestHandler(t, Deps{}), http.MethodDelete, "/secrets/github")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestCheckpointLoopbackOnly(t *testing.T) {
	h := newTestHandler(t, Deps{})

	rec := do(h, http.MethodPost, "/db/checkpoint")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/db/checkpoint", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestIDAndCors(t *testing.T) {
	h := newTestHandler(t, Deps{})

	req := httptest.NewRequest(http.MethodOptions, "/postings", nil)
	req.Header.Set("Origin", "tauri://localhost")
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "tauri://localhost", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestRecoverFromPanic(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") }),
		RequestID, Recover(nopLog()))

	rec := do(h, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

func TestEventsStream(t *testing.T) {
	hub := events.NewHub()
	srv := httptest.NewServer(newTestHandler(t, Deps{Hub: hub}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	br := bufio.NewReader(resp.Body)
	next := func() string {
		for {
			line, err := br.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			}
		}
	}

	assert.Contains(t, next(), `"type":"ping"`)
	hub.Emit(events.TypeIngestCompleted, events.IngestCompleted{Inserted: 5})
	assert.Contains(t, next(), `"inserted":5`)
}
