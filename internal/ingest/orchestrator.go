package ingest

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"internhunt-engine/internal/domain"
	"internhunt-engine/internal/events"
	"internhunt-engine/internal/metrics"
	"internhunt-engine/internal/scrape/readme"
	"internhunt-engine/internal/scrape/source"
	"internhunt-engine/internal/store"
)

// ErrRunInProgress is returned when Run is called while another run has
// not finished.
var ErrRunInProgress = errors.New("ingestion run already in progress")

// Corpus is the part of the store the orchestrator writes to.
type Corpus interface {
	InsertMany(ctx context.Context, postings []domain.Posting, source string) (store.InsertResult, error)
	Count(ctx context.Context) (int, error)
}

type Publisher interface {
	Emit(typ string, data any)
}

type Options struct {
	Log     *zap.SugaredLogger
	Metrics *metrics.Metrics
	Events  Publisher
	Now     readme.Clock
}

type Orchestrator struct {
	cfg     Config
	fetcher source.Fetcher
	corpus  Corpus
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
	events  Publisher
	now     readme.Clock

	running atomic.Bool
	mu      sync.Mutex
	status  Status
}

func New(cfg Config, f source.Fetcher, c Corpus, opts Options) *Orchestrator {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{
		cfg:     cfg,
		fetcher: f,
		corpus:  c,
		log:     opts.Log,
		metrics: opts.Metrics,
		events:  opts.Events,
		now:     opts.Now,
	}
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	st := o.status
	st.Running = o.running.Load()
	return st
}

// Run scrapes every source concurrently. A failing source never cancels
// its siblings; its failure is recorded in its SourceReport.
func (o *Orchestrator) Run(ctx context.Context) (Report, error) {
	if !o.running.CompareAndSwap(false, true) {
		return Report{}, ErrRunInProgress
	}
	defer o.running.Store(false)

	rep := Report{StartedAt: o.now().UTC(), Sources: make([]SourceReport, len(o.cfg.Sources))}
	o.mu.Lock()
	o.status.LastRunAt = rep.StartedAt.Format(time.RFC3339)
	o.mu.Unlock()
	o.emit(events.TypeIngestStarted, map[string]int{"sources": len(o.cfg.Sources)})

	var g errgroup.Group
	for i, sc := range o.cfg.Sources {
		i, sc := i, sc
		g.Go(func() error {
			rep.Sources[i] = o.runSource(ctx, sc)
			return nil
		})
	}
	_ = g.Wait()
	rep.FinishedAt = o.now().UTC()

	o.finish(ctx, rep)
	return rep, nil
}

func (o *Orchestrator) runSource(ctx context.Context, sc SourceConfig) SourceReport {
	sr := SourceReport{
		Source: sc.Owner,
		Owner:  sc.Owner,
		Repo:   sc.Repo,
		Path:   sc.Path,
		Kind:   sc.Kind,
		Parsed: []domain.Posting{},
		Phase:  PhaseFetch,
	}
	log := o.log.With("source", sc.Ref.String(), "kind", sc.Kind)

	ex, err := readme.ForKind(sc.Kind, o.now)
	if err != nil {
		sr.Phase, sr.Error = PhaseExtract, err.Error()
		log.Errorw("no extractor", "err", err)
		return sr
	}

	fctx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
	start := time.Now()
	raw, err := o.fetcher.Fetch(fctx, sc.Ref)
	cancel()
	o.metrics.ObserveFetch(sc.Owner, time.Since(start), err)
	if err != nil {
		sr.Error = err.Error()
		log.Warnw("fetch failed", "err", err)
		return sr
	}
	sr.Raw = raw
	log.Debugw("fetched", "bytes", len(raw), "took", time.Since(start))

	sr.Phase = PhaseExtract
	for _, row := range ex.Extract(raw) {
		sr.Parsed = append(sr.Parsed, row.Posting(sc.Owner))
	}
	o.metrics.AddRows(sc.Owner, metrics.OutcomeParsed, len(sr.Parsed))

	sr.Phase = PhaseInsert
	res, err := o.corpus.InsertMany(ctx, sr.Parsed, sc.Owner)
	if err != nil {
		sr.Error = err.Error()
		log.Errorw("insert failed", "parsed", len(sr.Parsed), "err", err)
		return sr
	}
	sr.Inserted, sr.Existing, sr.BatchDuplicates = res.Inserted, res.Existing, res.BatchDuplicates
	sr.Phase = PhaseDone

	o.metrics.AddRows(sc.Owner, metrics.OutcomeInserted, res.Inserted)
	o.metrics.AddRows(sc.Owner, metrics.OutcomeExisting, res.Existing)
	o.metrics.AddRows(sc.Owner, metrics.OutcomeBatchDuplicate, res.BatchDuplicates)
	if res.Inserted > 0 {
		o.emit(events.TypePostingsAdded, events.PostingsAdded{Source: sc.Owner, Count: res.Inserted})
	}
	log.Infow("source done",
		"parsed", len(sr.Parsed),
		"inserted", res.Inserted,
		"existing", res.Existing,
		"batch_duplicates", res.BatchDuplicates)
	return sr
}

func (o *Orchestrator) finish(ctx context.Context, rep Report) {
	took := rep.FinishedAt.Sub(rep.StartedAt)
	result := rep.Result()
	if len(rep.Sources) == 0 {
		result = "ok"
	}
	o.metrics.ObserveRun(result, took)
	if n, err := o.corpus.Count(ctx); err != nil {
		o.log.Warnw("count corpus", "err", err)
	} else {
		o.metrics.SetCorpus(n)
	}

	var errs []string
	for _, s := range rep.Sources {
		if s.Error != "" {
			errs = append(errs, s.Source+": "+s.Error)
		}
	}

	o.mu.Lock()
	o.status.LastInserted = rep.Inserted()
	o.status.LastError = strings.Join(errs, "; ")
	if len(errs) == 0 {
		o.status.LastOkAt = rep.FinishedAt.Format(time.RFC3339)
	}
	o.mu.Unlock()

	o.emit(events.TypeIngestCompleted, events.IngestCompleted{
		Sources:  len(rep.Sources),
		Inserted: rep.Inserted(),
		Failed:   rep.Failed(),
		Duration: took.String(),
	})
	o.log.Infow("run finished", "result", result, "inserted", rep.Inserted(), "failed", rep.Failed(), "took", took)
}

func (o *Orchestrator) emit(typ string, data any) {
	if o.events != nil {
		o.events.Emit(typ, data)
	}
}
