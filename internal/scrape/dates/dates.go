// Package dates turns the date notations used by README job tables into
// absolute timestamps.
package dates

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// RetentionWindow is how old a posting may be and still be ingested.
	RetentionWindow = 14 * 24 * time.Hour

	// StaleAge is assumed for relative tokens that cannot be read.
	StaleAge = 180 * 24 * time.Hour

	day = 24 * time.Hour
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ResolveMonthDay reads tokens like "Sep 24" as midnight of that day in the
// current year of now. The year is never adjusted, so a December token read
// in January lands in the future. Unreadable tokens resolve to now.
func ResolveMonthDay(token string, now time.Time) time.Time {
	fields := strings.Fields(token)
	if len(fields) != 2 || len(fields[0]) < 3 {
		return now
	}
	m, ok := months[strings.ToLower(fields[0][:3])]
	if !ok {
		return now
	}
	d, err := strconv.Atoi(fields[1])
	if err != nil || d < 1 || d > 31 {
		return now
	}
	t := time.Date(now.Year(), m, d, 0, 0, 0, 0, now.Location())
	if t.Month() != m {
		// Feb 30 and friends
		return now
	}
	return t
}

// ResolveAge reads tokens like "2d", "3w" or "1mo" as that long before now.
// Unknown units count as months. Unreadable tokens, and ages too large to
// represent, resolve to StaleAge ago.
func ResolveAge(token string, now time.Time) time.Time {
	token = strings.ToLower(strings.TrimSpace(token))
	i := 0
	for i < len(token) && token[i] >= '0' && token[i] <= '9' {
		i++
	}
	if i == 0 || i == len(token) {
		return now.Add(-StaleAge)
	}
	n, err := strconv.Atoi(token[:i])
	if err != nil {
		return now.Add(-StaleAge)
	}

	unit := 30 * day
	switch token[i:] {
	case "d":
		unit = day
	case "w":
		unit = 7 * day
	case "mo":
		unit = 30 * day
	}
	// ages past the Duration range would wrap into the future
	if n > int(math.MaxInt64/int64(unit)) {
		return now.Add(-StaleAge)
	}
	return now.Add(-time.Duration(n) * unit)
}

// IsRecent reports whether t falls inside the retention window ending at now.
func IsRecent(t, now time.Time) bool {
	return !t.Before(now.Add(-RetentionWindow))
}
