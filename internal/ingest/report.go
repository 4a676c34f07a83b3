package ingest

import (
	"time"

	"internhunt-engine/internal/domain"
	"internhunt-engine/internal/scrape/readme"
)

// Phase is the last stage a source reached.
type Phase string

const (
	PhaseFetch   Phase = "fetch"
	PhaseExtract Phase = "extract"
	PhaseInsert  Phase = "insert"
	PhaseDone    Phase = "done"
)

type Report struct {
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Sources    []SourceReport `json:"sources"`
}

// SourceReport carries the raw document and the parsed rows so a trigger
// caller can see exactly what was scraped.
type SourceReport struct {
	Source          string           `json:"source"`
	Owner           string           `json:"owner"`
	Repo            string           `json:"repo"`
	Path            string           `json:"path"`
	Kind            readme.Kind      `json:"kind"`
	Raw             string           `json:"raw"`
	Parsed          []domain.Posting `json:"parsed"`
	Inserted        int              `json:"inserted"`
	Existing        int              `json:"existing"`
	BatchDuplicates int              `json:"batchDuplicates"`
	Phase           Phase            `json:"phase"`
	Error           string           `json:"error,omitempty"`
}

func (r Report) Inserted() int {
	n := 0
	for _, s := range r.Sources {
		n += s.Inserted
	}
	return n
}

func (r Report) Failed() int {
	n := 0
	for _, s := range r.Sources {
		if s.Error != "" {
			n++
		}
	}
	return n
}

// Result is "ok", "partial" or "failed" depending on how many sources
// errored.
func (r Report) Result() string {
	switch f := r.Failed(); {
	case f == 0:
		return "ok"
	case f < len(r.Sources):
		return "partial"
	default:
		return "failed"
	}
}

// Status describes the most recent run for the status endpoint.
type Status struct {
	Running      bool   `json:"running"`
	LastRunAt    string `json:"last_run_at"`
	LastOkAt     string `json:"last_ok_at"`
	LastError    string `json:"last_error"`
	LastInserted int    `json:"last_inserted"`
}
