// Package readme extracts job rows from the markdown/HTML tables that
// community internship lists keep in their README files.
package readme

import (
	"time"

	"github.com/cockroachdb/errors"

	"internhunt-engine/internal/domain"
)

// Kind selects the table dialect of a source.
type Kind string

const (
	// KindMonthDay tables date rows like "Sep 24" and may fall back to
	// plain markdown rows.
	KindMonthDay Kind = "month_day"
	// KindAge tables date rows by age ("2d", "3w", "1mo") and carry an
	// "Apply" badge link.
	KindAge Kind = "age"
)

func (k Kind) Valid() bool {
	return k == KindMonthDay || k == KindAge
}

// Extractor turns raw README text into accepted rows. Rows that fail the
// header, completeness or recency checks are never returned.
type Extractor interface {
	Kind() Kind
	Extract(raw string) []domain.RawRow
}

// Clock returns the current time; extractors read it once per Extract.
type Clock func() time.Time

// ForKind returns the extractor for k. A nil clock means time.Now.
func ForKind(k Kind, now Clock) (Extractor, error) {
	if now == nil {
		now = time.Now
	}
	switch k {
	case KindMonthDay:
		return MonthDay{Now: now}, nil
	case KindAge:
		return Age{Now: now}, nil
	default:
		return nil, errors.Newf("unknown source kind %q", k)
	}
}
