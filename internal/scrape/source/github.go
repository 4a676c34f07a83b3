package source

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"internhunt-engine/internal/scrape/util"
)

// maxDownload caps README downloads; the big internship lists sit around 2MB.
const maxDownload = 16 << 20

type GitHubConfig struct {
	// BaseURL overrides https://api.github.com/ (GHE, tests).
	BaseURL string
	Token   string
	Timeout time.Duration
	Limiter *util.HostLimiter
}

// GitHub reads files through the repository contents API. Files served
// without inline content (over 1MB) are fetched from their download URL.
type GitHub struct {
	client *github.Client
	hc     *http.Client
}

func NewGitHub(ctx context.Context, cfg GitHubConfig) (*GitHub, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Limiter == nil {
		cfg.Limiter = util.NewHostLimiter(1.0, 2)
	}

	hc := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: cfg.Limiter.Transport(nil),
	}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		hc = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, hc), ts)
		hc.Timeout = cfg.Timeout
	}

	client := github.NewClient(hc)
	if cfg.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, errors.Wrapf(err, "parse github base url %q", cfg.BaseURL)
		}
		client.BaseURL = u
	}
	return &GitHub{client: client, hc: hc}, nil
}

func (g *GitHub) Fetch(ctx context.Context, ref Ref) (string, error) {
	fc, _, _, err := g.client.Repositories.GetContents(ctx, ref.Owner, ref.Repo, ref.Path, nil)
	if err != nil {
		return "", errors.Wrapf(err, "get contents %s", ref)
	}
	if fc == nil {
		return "", errors.Newf("%s is a directory", ref)
	}

	content, decErr := fc.GetContent()
	if decErr == nil && content != "" {
		return content, nil
	}
	if dl := fc.GetDownloadURL(); dl != "" {
		return g.download(ctx, dl)
	}
	if decErr != nil {
		return "", errors.Wrapf(decErr, "decode contents %s", ref)
	}
	return "", errors.Wrapf(ErrNoContent, "%s", ref)
}

func (g *GitHub) download(ctx context.Context, raw string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", errors.Wrapf(err, "build download request %s", raw)
	}
	req.Header.Set("User-Agent", "InternHunt/1.0 (+ingest)")

	res, err := g.hc.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "download %s", raw)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return "", errors.Newf("download %s: status %d", raw, res.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, maxDownload))
	if err != nil {
		return "", errors.Wrapf(err, "read download %s", raw)
	}
	if len(b) == 0 {
		return "", errors.Wrapf(ErrNoContent, "download %s", raw)
	}
	return string(b), nil
}
