package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internhunt-engine/internal/ingest"
	"internhunt-engine/internal/scrape/readme"
	"internhunt-engine/internal/scrape/source"
)

func TestDefaultIsValid(t *testing.T) {
	cfg, v := NormalizeAndValidate(Default())
	require.True(t, v.OK(), v.Errors)
	assert.Empty(t, v.Warnings)

	require.Len(t, cfg.Ingest.Sources, 2)
	assert.Equal(t, readme.KindMonthDay, cfg.Ingest.Sources[0].Kind)
	assert.Equal(t, "SimplifyJobs", cfg.Ingest.Sources[0].Owner)
	assert.Equal(t, readme.KindAge, cfg.Ingest.Sources[1].Kind)
	assert.Equal(t, time.Hour, cfg.Interval())
	assert.Equal(t, 2*time.Minute, cfg.IngestConfig().FetchTimeout)
	assert.Equal(t, DefaultAddr, cfg.App.Addr)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("ingest:\n  sorces: []\n"))
	assert.Error(t, err)
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
ingest:
  sources:
    - owner: " SimplifyJobs "
      repo: Summer2025-Internships
      path: /README.md
      kind: MONTH_DAY
`))
	require.NoError(t, err)

	out, v := NormalizeAndValidate(cfg)
	require.True(t, v.OK(), v.Errors)
	assert.Equal(t, source.Ref{Owner: "SimplifyJobs", Repo: "Summer2025-Internships", Path: "README.md"}, out.Ingest.Sources[0].Ref)
	assert.Equal(t, readme.KindMonthDay, out.Ingest.Sources[0].Kind)
	assert.Equal(t, DefaultFetchTimeout, out.Ingest.FetchTimeoutSeconds)
	assert.Equal(t, 20, out.Query.DefaultPageSize)
	assert.Equal(t, 200, out.Query.MaxPageSize)
	assert.Equal(t, "GITHUB_TOKEN", out.GitHub.TokenEnv)
	// interval 0 only disables the scheduler
	assert.Len(t, v.Warnings, 1)
}

func TestValidateErrors(t *testing.T) {
	src := func(owner, repo string, kind readme.Kind) ingest.SourceConfig {
		return ingest.SourceConfig{Ref: source.Ref{Owner: owner, Repo: repo, Path: "README.md"}, Kind: kind}
	}

	cases := map[string]func(*Config){
		"no sources":      func(c *Config) { c.Ingest.Sources = nil },
		"bad kind":        func(c *Config) { c.Ingest.Sources = []ingest.SourceConfig{src("a", "r", "csv")} },
		"missing repo":    func(c *Config) { c.Ingest.Sources = []ingest.SourceConfig{src("a", "", readme.KindAge)} },
		"shared owner":    func(c *Config) { c.Ingest.Sources = []ingest.SourceConfig{src("a", "r1", readme.KindAge), src("a", "r2", readme.KindAge)} },
		"negative period": func(c *Config) { c.Ingest.IntervalSeconds = -1 },
		"page sizes":      func(c *Config) { c.Query.DefaultPageSize, c.Query.MaxPageSize = 50, 10 },
		"log level":       func(c *Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			_, v := NormalizeAndValidate(cfg)
			assert.False(t, v.OK())
			assert.Contains(t, v.Error(), "config validation failed")
		})
	}
}

func TestRepeatedSourceIsDropped(t *testing.T) {
	cfg := Default()
	cfg.Ingest.Sources = append(cfg.Ingest.Sources, cfg.Ingest.Sources[0])

	out, v := NormalizeAndValidate(cfg)
	require.True(t, v.OK(), v.Errors)
	assert.Len(t, out.Ingest.Sources, 2)
	assert.Len(t, v.Warnings, 1)
}

func TestEnsureUserConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	path, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Ingest.Sources, 2)

	// an existing file is left alone
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
	_, err = EnsureUserConfig(dir)
	require.NoError(t, err)
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Ingest.Sources)
}

func TestDataDirEnv(t *testing.T) {
	t.Setenv(DataDirEnv, "/tmp/internhunt-test")
	assert.Equal(t, "/tmp/internhunt-test", DataDir())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
