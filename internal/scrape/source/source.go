// Package source fetches README content from code hosting repositories.
package source

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrNoContent is returned when a file exists but nothing could be read
// from it, inline or by download.
var ErrNoContent = errors.New("file has no content")

// Ref identifies one file in one repository.
type Ref struct {
	Owner string `yaml:"owner" json:"owner"`
	Repo  string `yaml:"repo" json:"repo"`
	Path  string `yaml:"path" json:"path"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s/%s", r.Owner, r.Repo, r.Path)
}

type Fetcher interface {
	Fetch(ctx context.Context, ref Ref) (string, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, ref Ref) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, ref Ref) (string, error) {
	return f(ctx, ref)
}
