package store

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"internhunt-engine/internal/domain"
)

// Criteria picks one view of the corpus. Only the first non-empty field in
// the order Search, Source, Companies is used; with none set every posting
// is returned newest first.
type Criteria struct {
	Search    string
	Source    string
	Companies []string
}

type PageRequest struct {
	Cursor   string
	NumItems int
}

type Page struct {
	Page           []domain.Posting `json:"page"`
	IsDone         bool             `json:"isDone"`
	ContinueCursor string           `json:"continueCursor"`
}

const (
	modeSearch = "search"
	modeSource = "source"
	modeAll    = "all"
)

const postingCols = `p.seq, p.id, p.company, p.title, p.location, p.application_link, p.source, p.created_at`

type postingRow struct {
	seq int64
	p   domain.Posting
}

func (d *DB) Query(ctx context.Context, c Criteria, req PageRequest) (Page, error) {
	n := d.pageSize(req.NumItems)
	switch {
	case strings.TrimSpace(c.Search) != "":
		return d.search(ctx, c.Search, req.Cursor, n)
	case c.Source != "":
		return d.newest(ctx, modeSource, c.Source, req.Cursor, n)
	case len(c.Companies) > 0:
		return d.byCompanies(ctx, c.Companies, req.Cursor, n)
	default:
		return d.newest(ctx, modeAll, "", req.Cursor, n)
	}
}

// newest pages by (created_at, seq) descending, optionally within a source.
func (d *DB) newest(ctx context.Context, mode, source, cursor string, n int) (Page, error) {
	k, err := decodeKeyset(cursor, mode)
	if err != nil {
		return Page{}, err
	}

	var (
		where []string
		args  []any
	)
	if mode == modeSource {
		where = append(where, "p.source = ?")
		args = append(args, source)
	}
	if k != nil {
		where = append(where, "(p.created_at < ? OR (p.created_at = ? AND p.seq < ?))")
		args = append(args, k.CreatedAt, k.CreatedAt, k.Seq)
	}
	q := `SELECT ` + postingCols + ` FROM postings p`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY p.created_at DESC, p.seq DESC LIMIT ?;`
	args = append(args, n+1)

	rows, err := d.scan(ctx, q, args...)
	if err != nil {
		return Page{}, errors.Wrapf(err, "query %s postings", mode)
	}

	page := Page{IsDone: len(rows) <= n}
	if !page.IsDone {
		rows = rows[:n]
	}
	page.Page = postingsOf(rows)
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		page.ContinueCursor = keyset{Mode: mode, CreatedAt: last.p.CreatedAt.UnixMilli(), Seq: last.seq}.encode()
	}
	return page, nil
}

// search ranks title matches with bm25. Every term must match; the last one
// also matches as a prefix.
func (d *DB) search(ctx context.Context, term, cursor string, n int) (Page, error) {
	k, err := decodeKeyset(cursor, modeSearch)
	if err != nil {
		return Page{}, err
	}
	offset := 0
	if k != nil {
		offset = k.Offset
	}

	rows, err := d.scan(ctx, `
SELECT `+postingCols+`
FROM postings_fts f
JOIN postings p ON p.seq = f.rowid
WHERE postings_fts MATCH ?
ORDER BY bm25(postings_fts), p.seq DESC
LIMIT ? OFFSET ?;`, ftsQuery(term), n+1, offset)
	if err != nil {
		return Page{}, errors.Wrap(err, "search postings")
	}

	page := Page{IsDone: len(rows) <= n}
	if !page.IsDone {
		rows = rows[:n]
	}
	page.Page = postingsOf(rows)
	page.ContinueCursor = keyset{Mode: modeSearch, Offset: offset + len(rows)}.encode()
	return page, nil
}

func ftsQuery(term string) string {
	fields := strings.Fields(term)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	if len(fields) > 0 {
		fields[len(fields)-1] += "*"
	}
	return strings.Join(fields, " ")
}

// byCompanies looks each company up on its own, merges newest first and
// slices by offset. The whole match set is held in memory.
func (d *DB) byCompanies(ctx context.Context, companies []string, cursor string, n int) (Page, error) {
	offset, err := decodeOffset(cursor)
	if err != nil {
		return Page{}, err
	}

	var all []postingRow
	seen := make(map[string]bool, len(companies))
	for _, c := range companies {
		if seen[c] {
			continue
		}
		seen[c] = true

		rows, err := d.scan(ctx, `SELECT `+postingCols+` FROM postings p WHERE p.company = ? ORDER BY p.created_at DESC, p.seq DESC;`, c)
		if err != nil {
			return Page{}, errors.Wrapf(err, "query company %q", c)
		}
		all = append(all, rows...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.p.CreatedAt.Equal(b.p.CreatedAt) {
			return a.p.CreatedAt.After(b.p.CreatedAt)
		}
		return a.seq > b.seq
	})

	start := min(offset, len(all))
	end := min(start+n, len(all))
	return Page{
		Page:           postingsOf(all[start:end]),
		IsDone:         end >= len(all),
		ContinueCursor: strconv.Itoa(end),
	}, nil
}

// ListDistinctCompanies returns every company in the corpus, sorted.
func (d *DB) ListDistinctCompanies(ctx context.Context) ([]string, error) {
	rows, err := d.Pool.QueryContext(ctx, `SELECT DISTINCT company FROM postings ORDER BY company;`)
	if err != nil {
		return nil, errors.Wrap(err, "list companies")
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, errors.Wrap(err, "scan company")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list companies")
	}
	return out, nil
}

// Count returns the corpus size.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM postings;`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count postings")
	}
	return n, nil
}

func (d *DB) scan(ctx context.Context, q string, args ...any) ([]postingRow, error) {
	rows, err := d.Pool.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []postingRow
	for rows.Next() {
		var (
			r       postingRow
			created int64
		)
		if err := rows.Scan(&r.seq, &r.p.ID, &r.p.Company, &r.p.Title, &r.p.Location, &r.p.ApplicationLink, &r.p.Source, &created); err != nil {
			return nil, err
		}
		r.p.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func postingsOf(rows []postingRow) []domain.Posting {
	out := make([]domain.Posting, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.p)
	}
	return out
}

