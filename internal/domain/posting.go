package domain

import "time"

// Posting is one scraped opportunity in the shared corpus.
// (Company, Title) is its identity across all sources.
type Posting struct {
	ID              string    `json:"id"`
	Company         string    `json:"company"`
	Title           string    `json:"title"`
	Location        string    `json:"location,omitempty"`
	ApplicationLink string    `json:"applicationLink,omitempty"`
	Source          string    `json:"source"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Key returns the identity used by the dedup gate.
func (p Posting) Key() PostingKey {
	return PostingKey{Company: p.Company, Title: p.Title}
}

type PostingKey struct {
	Company string
	Title   string
}

// RawRow is what an extractor emits before the row becomes a Posting.
type RawRow struct {
	Company         string
	Title           string
	Location        string
	ApplicationLink string
	DateToken       string
	CreatedAt       time.Time
}

func (r RawRow) Posting(source string) Posting {
	return Posting{
		Company:         r.Company,
		Title:           r.Title,
		Location:        r.Location,
		ApplicationLink: r.ApplicationLink,
		Source:          source,
		CreatedAt:       r.CreatedAt,
	}
}
