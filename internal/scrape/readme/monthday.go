package readme

import (
	"time"

	"internhunt-engine/internal/domain"
	"internhunt-engine/internal/scrape/dates"
	"internhunt-engine/internal/scrape/util"
)

// MonthDay reads tables whose date column looks like "Sep 24".
type MonthDay struct {
	Now Clock
}

func (MonthDay) Kind() Kind { return KindMonthDay }

func (e MonthDay) Extract(raw string) []domain.RawRow {
	now := e.Now()

	rows := TokenizeHTMLRows(raw)
	if len(rows) == 0 {
		rows = TokenizeMarkdownRows(raw)
	}

	var (
		companies companyTracker
		out       []domain.RawRow
	)
	for _, cells := range rows {
		r := e.build(cells, &companies, now)
		if rejectReason(r, now) != "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (e MonthDay) build(cells []Cell, companies *companyTracker, now time.Time) domain.RawRow {
	first := cellAt(cells, 0)

	var company, link string
	switch l, ok := first.FirstLink(); {
	case isContinuation(first):
		company = ContinuationMarker
	case ok && l.Text != "":
		company, link = l.Text, l.Href
	case ok:
		company, link = first.Text, l.Href
	default:
		company = first.Text
	}
	company = companies.resolve(company)

	if link == "" {
		if l, ok := cellAt(cells, 3).FirstLink(); ok {
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
		CreatedAt:       dates.ResolveMonthDay(token, now),
	}
}
