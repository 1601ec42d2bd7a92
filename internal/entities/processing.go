package entities

import "time"

type ProcessingStatus string

const (
	ProcessingStatusQueued     ProcessingStatus = "queued"
	ProcessingStatusFetching   ProcessingStatus = "fetching"
	ProcessingStatusConverting ProcessingStatus = "converting"
	ProcessingStatusFixing     ProcessingStatus = "fixing" // post-conversion markdown fixes
	ProcessingStatusSaving     ProcessingStatus = "saving"
	ProcessingStatusCompleted  ProcessingStatus = "completed"
	ProcessingStatusFailed     ProcessingStatus = "failed"
)

// IsTerminal reports whether no further pipeline stage follows the status.
func (s ProcessingStatus) IsTerminal() bool {
	return s == ProcessingStatusCompleted || s == ProcessingStatusFailed
}

// BasketItem is a book selected for conversion but not yet checked out.
type BasketItem struct {
	Book    SourceBook `json:"book"`
	AddedAt time.Time  `json:"added_at"`
}

// ProcessingRecord tracks one book while its conversion pipeline runs.
type ProcessingRecord struct {
	Book            SourceBook       `json:"book"`
	Status          ProcessingStatus `json:"status"`
	StartedAt       time.Time        `json:"started_at"`
	ProgressMessage string           `json:"progress_message"`
	ErrorMessage    string           `json:"error_message,omitempty"`
}
