package readme

import (
	"strings"
	"time"

	"internhunt-engine/internal/domain"
	"internhunt-engine/internal/scrape/dates"
	"internhunt-engine/internal/scrape/util"
)

// Age reads HTML tables whose date column is a relative age like "3d". It
// has no markdown fallback.
type Age struct {
	Now Clock
}

func (Age) Kind() Kind { return KindAge }

func (e Age) Extract(raw string) []domain.RawRow {
	now := e.Now()

	var (
		companies companyTracker
		out       []domain.RawRow
	)
	for _, cells := range TokenizeHTMLRows(raw) {
		r := e.build(cells, &companies, now)
		if rejectReason(r, now) != "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (e Age) build(cells []Cell, companies *companyTracker, now time.Time) domain.RawRow {
	first := cellAt(cells, 0)

	company := first.Text
	if isContinuation(first) {
		company = ContinuationMarker
	}
	company = companies.resolve(company)

	link := applyLink(cellAt(cells, 3))
	if link == "" {
		if l, ok := first.FirstLink(); ok {
			link = l.Href
		}
	}

	token := util.StripEmoji(cellAt(cells, 4).Text)
	return domain.RawRow{
		Company:         company,
		Title:           util.StripEmoji(cellAt(cells, 1).Text),
		Location:        cellAt(cells, 2).Text,
		ApplicationLink: link,
		DateToken:       token,
		CreatedAt:       dates.ResolveAge(token, now),
	}
}

// applyLink returns the href of the first link labelled "Apply".
func applyLink(c Cell) string {
	for _, l := range c.Links {
		if strings.Contains(strings.ToLower(l.Text), "apply") {
			return l.Href
		}
	}
	return ""
}
