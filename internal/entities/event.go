package entities

import "time"

type EventKind string

const (
	EventKindBookReady        EventKind = "book_ready"
	EventKindProcessingFailed EventKind = "processing_failed"
	EventKindInfo             EventKind = "info"
)

// MaxEvents is the number of notification events kept, newest first.
const MaxEvents = 100

// NotificationEvent is a user-facing notification about pipeline outcomes.
type NotificationEvent struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"event_type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	BookID    *int      `json:"book_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}
