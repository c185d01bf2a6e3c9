package domain

import "time"

// EventType tags lifecycle events published for downstream consumers.
type EventType string

const (
	EventSubmitted EventType = "submitted"
	EventAbandoned EventType = "abandoned"
)

// Event is one lifecycle notification for a simulation directory.
type Event struct {
	Type      EventType `json:"type"`
	Directory string    `json:"directory"`
	JobID     string    `json:"job_id,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	Time      time.Time `json:"time"`
}
