package config

import (
	"fmt"
	"strings"

	"internhunt-engine/internal/ingest"
	"internhunt-engine/internal/scrape/readme"
	"internhunt-engine/internal/store"
)

const (
	DefaultAddr         = "127.0.0.1:38471"
	DefaultFetchTimeout = 120
	DefaultTokenEnv     = "GITHUB_TOKEN"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Error() string {
	return "config validation failed:\n- " + strings.Join(v.Errors, "\n- ")
}

// NormalizeAndValidate fills defaults, trims source fields and drops
// repeated sources, then checks what is left.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	if strings.TrimSpace(out.App.Addr) == "" {
		out.App.Addr = DefaultAddr
	}
	if out.Ingest.FetchTimeoutSeconds <= 0 {
		out.Ingest.FetchTimeoutSeconds = DefaultFetchTimeout
	}
	if strings.TrimSpace(out.GitHub.TokenEnv) == "" {
		out.GitHub.TokenEnv = DefaultTokenEnv
	}
	if out.Query.DefaultPageSize <= 0 {
		out.Query.DefaultPageSize = store.DefaultPageSize
	}
	if out.Query.MaxPageSize <= 0 {
		out.Query.MaxPageSize = store.MaxPageSize
	}
	out.GitHub.APIBaseURL = strings.TrimSpace(out.GitHub.APIBaseURL)

	seen := map[string]bool{}
	owners := map[string]int{}
	var sources []ingest.SourceConfig
	for i, s := range out.Ingest.Sources {
		s.Owner = strings.TrimSpace(s.Owner)
		s.Repo = strings.TrimSpace(s.Repo)
		s.Path = strings.Trim(strings.TrimSpace(s.Path), "/")
		s.Kind = readme.Kind(strings.ToLower(strings.TrimSpace(string(s.Kind))))

		if s.Owner == "" || s.Repo == "" || s.Path == "" {
			res.addErr("ingest.sources[%d] needs owner, repo and path", i)
			continue
		}
		if !s.Kind.Valid() {
			res.addErr("ingest.sources[%d].kind %q must be %q or %q", i, s.Kind, readme.KindMonthDay, readme.KindAge)
			continue
		}
		key := s.Ref.String()
		if seen[key] {
			res.addWarn("ingest.sources[%d] repeats %s; ignored", i, key)
			continue
		}
		seen[key] = true
		owners[s.Owner]++
		sources = append(sources, s)
	}
	out.Ingest.Sources = sources

	if len(sources) == 0 && len(res.Errors) == 0 {
		res.addErr("ingest.sources is empty; configure at least one README source")
	}
	// a posting's source is the repository owner
	for owner, n := range owners {
		if n > 1 {
			res.addErr("ingest.sources has %d entries for owner %q; owners must be distinct", n, owner)
		}
	}

	switch iv := out.Ingest.IntervalSeconds; {
	case iv < 0:
		res.addErr("ingest.interval_seconds must be >= 0")
	case iv == 0:
		res.addWarn("ingest.interval_seconds is 0; scraping runs only when triggered")
	case iv < 60:
		res.addWarn("ingest.interval_seconds is very low (%d) and may hit GitHub rate limits.", iv)
	}

	if out.Query.DefaultPageSize > out.Query.MaxPageSize {
		res.addErr("query.default_page_size (%d) exceeds query.max_page_size (%d)", out.Query.DefaultPageSize, out.Query.MaxPageSize)
	}

	switch strings.ToLower(out.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		res.addErr("log.level %q must be debug, info, warn or error", out.Log.Level)
	}

	return out, res
}
