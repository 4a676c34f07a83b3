// Package ingest runs one scrape of every configured README source into
// the corpus.
package ingest

import (
	"time"

	"internhunt-engine/internal/scrape/readme"
	"internhunt-engine/internal/scrape/source"
)

const DefaultFetchTimeout = 2 * time.Minute

// SourceConfig is one README feed and the table dialect it uses.
type SourceConfig struct {
	source.Ref `yaml:",inline"`
	Kind       readme.Kind `yaml:"kind" json:"kind"`
}

type Config struct {
	Sources      []SourceConfig
	FetchTimeout time.Duration
}
