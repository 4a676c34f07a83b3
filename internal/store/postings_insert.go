package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"internhunt-engine/internal/domain"
)

// InsertResult describes what the dedup gate did with one batch.
type InsertResult struct {
	Candidates      int              `json:"candidates"`
	Existing        int              `json:"existing"`
	BatchDuplicates int              `json:"batchDuplicates"`
	Inserted        int              `json:"inserted"`
	Postings        []domain.Posting `json:"postings"`
}

// InsertMany stamps source onto every candidate and inserts the ones whose
// (company, title) is not already in the corpus under any source. Repeats
// inside the batch keep their first occurrence. The existence check runs
// once, against the corpus as it was before this batch.
func (d *DB) InsertMany(ctx context.Context, postings []domain.Posting, source string) (InsertResult, error) {
	res := InsertResult{Candidates: len(postings)}
	if len(postings) == 0 {
		return res, nil
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return res, errors.Wrap(err, "begin insert")
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := existingKeys(ctx, tx, postings)
	if err != nil {
		return res, err
	}

	seen := make(map[domain.PostingKey]bool, len(postings))
	survivors := make([]domain.Posting, 0, len(postings))
	for _, p := range postings {
		k := p.Key()
		switch {
		case existing[k]:
			res.Existing++
		case seen[k]:
			res.BatchDuplicates++
		default:
			seen[k] = true
			survivors = append(survivors, p)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO postings(id, company, title, location, application_link, source, created_at)
VALUES(?,?,?,?,?,?,?);`)
	if err != nil {
		return res, errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	inserted := make([]domain.Posting, 0, len(survivors))
	for _, p := range survivors {
		p.ID = uuid.NewString()
		p.Source = source
		p.CreatedAt = time.UnixMilli(p.CreatedAt.UnixMilli()).UTC()

		r, err := stmt.ExecContext(ctx, p.ID, p.Company, p.Title, p.Location, p.ApplicationLink, p.Source, p.CreatedAt.UnixMilli())
		if err != nil {
			return res, errors.Wrapf(err, "insert posting company=%q title=%q", p.Company, p.Title)
		}
		// the unique index catches anything that landed after the snapshot
		if n, _ := r.RowsAffected(); n == 0 {
			res.Existing++
			continue
		}
		inserted = append(inserted, p)
	}

	if err := tx.Commit(); err != nil {
		return res, errors.Wrap(err, "commit insert")
	}
	res.Inserted, res.Postings = len(inserted), inserted
	return res, nil
}

func existingKeys(ctx context.Context, tx *sql.Tx, postings []domain.Posting) (map[domain.PostingKey]bool, error) {
	stmt, err := tx.PrepareContext(ctx, `SELECT 1 FROM postings WHERE company = ? AND title = ? LIMIT 1;`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare identity lookup")
	}
	defer stmt.Close()

	out := make(map[domain.PostingKey]bool)
	checked := make(map[domain.PostingKey]bool, len(postings))
	for _, p := range postings {
		k := p.Key()
		if checked[k] {
			continue
		}
		checked[k] = true

		var one int
		switch err := stmt.QueryRowContext(ctx, k.Company, k.Title).Scan(&one); {
		case err == nil:
			out[k] = true
		case errors.Is(err, sql.ErrNoRows):
		default:
			return nil, errors.Wrapf(err, "lookup company=%q title=%q", k.Company, k.Title)
		}
	}
	return out, nil
}
