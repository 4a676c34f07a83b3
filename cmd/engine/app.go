package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"internhunt-engine/internal/config"
	"internhunt-engine/internal/events"
	"internhunt-engine/internal/ingest"
	"internhunt-engine/internal/logging"
	"internhunt-engine/internal/metrics"
	"internhunt-engine/internal/scrape/source"
	"internhunt-engine/internal/scrape/util"
	"internhunt-engine/internal/secrets"
	"internhunt-engine/internal/store"
)

// app is everything serve and scrape share.
type app struct {
	cfg     config.Config
	cfgPath string
	dataDir string

	log     *zap.SugaredLogger
	lock    *flock.Flock
	db      *store.DB
	reg     *prometheus.Registry
	metrics *metrics.Metrics
	hub     *events.Hub
	orch    *ingest.Orchestrator
}

func openApp(ctx context.Context) (*app, error) {
	dir := dataDirFlag
	if dir == "" {
		dir = config.DataDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}

	cfgPath, err := config.EnsureUserConfig(dir)
	if err != nil {
		return nil, errors.Wrap(err, "config bootstrap")
	}
	raw, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg, v := config.NormalizeAndValidate(raw)
	if !v.OK() {
		return nil, errors.Newf("%s: %s", cfgPath, v.Error())
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return nil, err
	}
	for _, w := range v.Warnings {
		log.Warnw("config", "path", cfgPath, "warning", w)
	}

	a := &app{cfg: cfg, cfgPath: cfgPath, dataDir: dir, log: log}
	if cfg.App.DataDir != "" {
		a.dataDir = cfg.App.DataDir
		if err := os.MkdirAll(a.dataDir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create data dir %s", a.dataDir)
		}
	}

	a.lock = flock.New(filepath.Join(a.dataDir, "engine.lock"))
	locked, err := a.lock.TryLock()
	if err != nil {
		return nil, errors.Wrap(err, "lock data dir")
	}
	if !locked {
		return nil, errors.Newf("another engine is using %s", a.dataDir)
	}

	dbPath := filepath.Join(a.dataDir, "internhunt.db")
	if a.db, err = store.Open(dbPath); err != nil {
		a.Close()
		return nil, err
	}
	a.db.PageSize, a.db.MaxPage = cfg.Query.DefaultPageSize, cfg.Query.MaxPageSize
	if err := a.db.Migrate(ctx); err != nil {
		a.Close()
		return nil, err
	}

	token, err := secrets.GitHubToken(cfg.GitHub.TokenEnv)
	if err != nil {
		log.Warnw("github token unavailable; using anonymous access", "err", err)
	}
	gh, err := source.NewGitHub(ctx, source.GitHubConfig{
		BaseURL: cfg.GitHub.APIBaseURL,
		Token:   token,
		Timeout: cfg.FetchTimeout(),
		Limiter: util.NewHostLimiter(1.0, 2),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.reg = prometheus.NewRegistry()
	a.reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(a.reg)
	a.hub = events.NewHub()
	a.orch = ingest.New(cfg.IngestConfig(), gh, a.db, ingest.Options{
		Log:     log.Named("ingest"),
		Metrics: a.metrics,
		Events:  a.hub,
	})

	log.Infow("engine ready",
		"config", cfgPath,
		"db", dbPath,
		"sources", len(cfg.Ingest.Sources),
		"authenticated", token != "")
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.lock != nil {
		_ = a.lock.Unlock()
	}
	_ = a.log.Sync()
}
