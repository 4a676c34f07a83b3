package store

import (
	"context"

	"github.com/cockroachdb/errors"
)

const schemaVersion = 1

var schemaV1 = []string{
	`
CREATE TABLE IF NOT EXISTS postings (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  company TEXT NOT NULL,
  title TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  application_link TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL,
  created_at INTEGER NOT NULL
);`,
	// identity of a posting across every source
	`
CREATE UNIQUE INDEX IF NOT EXISTS idx_postings_identity
ON postings(company, title);`,
	`
CREATE INDEX IF NOT EXISTS idx_postings_created
ON postings(created_at DESC, seq DESC);`,
	`
CREATE INDEX IF NOT EXISTS idx_postings_source_created
ON postings(source, created_at DESC, seq DESC);`,
	`
CREATE VIRTUAL TABLE IF NOT EXISTS postings_fts
USING fts5(title, content='postings', content_rowid='seq');`,
	`
CREATE TRIGGER IF NOT EXISTS postings_fts_ai AFTER INSERT ON postings BEGIN
  INSERT INTO postings_fts(rowid, title) VALUES (new.seq, new.title);
END;`,
}

func (d *DB) Migrate(ctx context.Context) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin migrate")
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return errors.Wrap(err, "read user_version")
	}
	if v >= schemaVersion {
		return tx.Commit()
	}

	for _, stmt := range schemaV1 {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "apply schema v1")
		}
	}

	// PRAGMA does not take bind parameters
	if _, err := tx.ExecContext(ctx, `PRAGMA user_version = 1;`); err != nil {
		return errors.Wrap(err, "set user_version")
	}
	return tx.Commit()
}
