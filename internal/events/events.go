package events

import (
	"encoding/json"
	"time"
)

const (
	TypeIngestStarted   = "ingest_started"
	TypeIngestCompleted = "ingest_completed"
	TypePostingsAdded   = "postings_added"
)

// Event is the SSE payload. Data is whatever the publisher attached.
type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// IngestCompleted is attached to TypeIngestCompleted.
type IngestCompleted struct {
	Sources  int    `json:"sources"`
	Inserted int    `json:"inserted"`
	Failed   int    `json:"failed"`
	Duration string `json:"duration"`
}

// PostingsAdded is attached to TypePostingsAdded, one per source that
// inserted something.
type PostingsAdded struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

func MakeEvent(reqID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			raw = b
		}
	}
	b, _ := json.Marshal(Event{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	})
	return string(b)
}
