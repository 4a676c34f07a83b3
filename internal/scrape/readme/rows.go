package readme

import (
	"strings"
	"time"

	"internhunt-engine/internal/domain"
	"internhunt-engine/internal/scrape/dates"
)

// ContinuationMarker in the company column means "same company as above".
const ContinuationMarker = "↳"

// companyTracker carries the last real company name through one parse.
type companyTracker struct {
	last string
}

func (t *companyTracker) resolve(name string) string {
	if strings.TrimSpace(name) == ContinuationMarker {
		return t.last
	}
	t.last = name
	return name
}

func isContinuation(c Cell) bool {
	return strings.TrimSpace(c.Text) == ContinuationMarker
}

// cellAt returns the i-th cell, or an empty one for short markdown rows.
func cellAt(row []Cell, i int) Cell {
	if i < len(row) {
		return row[i]
	}
	return Cell{}
}

// Reject reasons; empty means the row is kept.
const (
	rejectHeader  = "header"
	rejectCompany = "no_company"
	rejectTitle   = "no_title"
	rejectLink    = "no_link"
	rejectStale   = "stale"
)

func rejectReason(r domain.RawRow, now time.Time) string {
	lc := strings.ToLower(r.Company)
	switch {
	case strings.Contains(lc, "company"), strings.Contains(lc, "name"):
		return rejectHeader
	case strings.TrimSpace(r.Company) == "":
		return rejectCompany
	case strings.TrimSpace(r.Title) == "":
		return rejectTitle
	case r.ApplicationLink == "":
		return rejectLink
	case !dates.IsRecent(r.CreatedAt, now):
		return rejectStale
	}
	return ""
}
