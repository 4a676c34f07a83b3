// Package metrics holds the Prometheus collectors for ingestion runs.
//
// Exposed series, all prefixed "internhunt_":
//   - ingest_runs_total{result}
//   - ingest_run_duration_seconds
//   - source_fetch_errors_total{source}
//   - source_rows_total{source,outcome} (parsed, inserted, existing, batch_duplicate)
//   - source_fetch_duration_seconds{source}
//   - corpus_postings
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeParsed         = "parsed"
	OutcomeInserted       = "inserted"
	OutcomeExisting       = "existing"
	OutcomeBatchDuplicate = "batch_duplicate"
)

type Metrics struct {
	RunsTotal     *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	FetchErrors   *prometheus.CounterVec
	Rows          *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	Corpus        prometheus.Gauge
}

// New registers the collectors on reg. Passing a fresh registry per test
// avoids duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "internhunt_ingest_runs_total",
			Help: "Ingestion runs by result (ok, partial, failed).",
		}, []string{"result"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "internhunt_ingest_run_duration_seconds",
			Help:    "Wall time of a full ingestion run.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		FetchErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "internhunt_source_fetch_errors_total",
			Help: "Failed source fetches.",
		}, []string{"source"}),
		Rows: f.NewCounterVec(prometheus.CounterOpts{
			Name: "internhunt_source_rows_total",
			Help: "Rows seen per source by outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "internhunt_source_fetch_duration_seconds",
			Help:    "Time to fetch one source document.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		Corpus: f.NewGauge(prometheus.GaugeOpts{
			Name: "internhunt_corpus_postings",
			Help: "Postings in the corpus after the last run.",
		}),
	}
}

// ObserveFetch is nil-safe so callers can run without metrics.
func (m *Metrics) ObserveFetch(source string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		m.FetchErrors.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) AddRows(source, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Rows.WithLabelValues(source, outcome).Add(float64(n))
}

func (m *Metrics) ObserveRun(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(result).Inc()
	m.RunDuration.Observe(d.Seconds())
}

func (m *Metrics) SetCorpus(n int) {
	if m == nil {
		return
	}
	m.Corpus.Set(float64(n))
}
