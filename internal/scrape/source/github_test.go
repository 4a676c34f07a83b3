package source

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readme = "# Internships\n<table><tr><td>Acme</td></tr></table>\n"

func newTestGitHub(t *testing.T, token string, h http.Handler) *GitHub {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewGitHub(context.Background(), GitHubConfig{BaseURL: srv.URL, Token: token})
	require.NoError(t, err)
	return g
}

func writeContent(w http.ResponseWriter, v map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestGitHub_InlineBase64(t *testing.T) {
	var gotAuth string
	g := newTestGitHub(t, "s3cret", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/repos/SimplifyJobs/Summer2025-Internships/contents/README.md", r.URL.Path)
		writeContent(w, map[string]any{
			"type":     "file",
			"name":     "README.md",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(readme)),
		})
	}))

	got, err := g.Fetch(context.Background(), Ref{Owner: "SimplifyJobs", Repo: "Summer2025-Internships", Path: "README.md"})

	require.NoError(t, err)
	assert.Equal(t, readme, got)
	assert.Equal(t, "Bearer s3cret", gotAuth)
}

func TestGitHub_FallsBackToDownloadURL(t *testing.T) {
	mux := http.NewServeMux()
	var base string
	mux.HandleFunc("/repos/o/r/contents/README.md", func(w http.ResponseWriter, r *http.Request) {
		writeContent(w, map[string]any{
			"type":         "file",
			"encoding":     "none",
			"content":      "",
			"download_url": base + "/raw/o/r/README.md",
		})
	})
	mux.HandleFunc("/raw/o/r/README.md", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(readme))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	base = srv.URL

	g, err := NewGitHub(context.Background(), GitHubConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := g.Fetch(context.Background(), Ref{Owner: "o", Repo: "r", Path: "README.md"})

	require.NoError(t, err)
	assert.Equal(t, readme, got)
}

func TestGitHub_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		g := newTestGitHub(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}))
		_, err := g.Fetch(context.Background(), Ref{Owner: "o", Repo: "r", Path: "README.md"})
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		g := newTestGitHub(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeContent(w, map[string]any{"type": "file", "encoding": "base64", "content": ""})
		}))
		_, err := g.Fetch(context.Background(), Ref{Owner: "o", Repo: "r", Path: "README.md"})
		assert.True(t, errors.Is(err, ErrNoContent), "got %v", err)
	})

	t.Run("download fails", func(t *testing.T) {
		mux := http.NewServeMux()
		srv := httptest.NewServer(mux)
		defer srv.Close()
		mux.HandleFunc("/repos/o/r/contents/README.md", func(w http.ResponseWriter, r *http.Request) {
			writeContent(w, map[string]any{"type": "file", "encoding": "none", "download_url": srv.URL + "/gone"})
		})
		g, err := NewGitHub(context.Background(), GitHubConfig{BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = g.Fetch(context.Background(), Ref{Owner: "o", Repo: "r", Path: "README.md"})
		assert.Error(t, err)
	})
}

func TestRef_String(t *testing.T) {
	assert.Equal(t, "o/r/README.md", Ref{Owner: "o", Repo: "r", Path: "README.md"}.String())
}
