package httpapi

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"internhunt-engine/internal/config"
	"internhunt-engine/internal/events"
	"internhunt-engine/internal/ingest"
	"internhunt-engine/internal/store"
)

// Corpus is the read side of the store.
type Corpus interface {
	Query(ctx context.Context, c store.Criteria, req store.PageRequest) (store.Page, error)
	ListDistinctCompanies(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Checkpoint(ctx context.Context) error
}

type Runner interface {
	Run(ctx context.Context) (ingest.Report, error)
	Status() ingest.Status
}

type Deps struct {
	Corpus Corpus
	Runner Runner
	Hub    *events.Hub
	Log    *zap.SugaredLogger

	// Metrics serves /metrics; nil leaves the route out.
	Metrics http.Handler

	Config     config.Config
	ConfigPath string

	// Token store, injected so tests stay off the OS keychain.
	SetToken    func(token string) error
	DeleteToken func() error
}
