package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// DB is the postings corpus.
type DB struct {
	Pool *sql.DB

	// PageSize and MaxPage bound Query page sizes; zero means the defaults.
	PageSize int
	MaxPage  int
}

func Open(path string) (*DB, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}

	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, errors.Wrapf(err, "ping sqlite %s", path)
	}

	return New(pool), nil
}

// New wraps an already opened pool.
func New(pool *sql.DB) *DB {
	return &DB{Pool: pool}
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

func (d *DB) pageSize(n int) int {
	def, max := d.PageSize, d.MaxPage
	if def <= 0 {
		def = DefaultPageSize
	}
	if max <= 0 {
		max = MaxPageSize
	}
	switch {
	case n <= 0:
		return def
	case n > max:
		return max
	}
	return n
}

// Checkpoint folds the WAL back into the main database file.
func (d *DB) Checkpoint(ctx context.Context) error {
	_, err := d.Pool.ExecContext(ctx, `PRAGMA wal_checkpoint(FULL);`)
	return errors.Wrap(err, "wal checkpoint")
}
