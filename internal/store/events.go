package store

import (
	"github.com/google/uuid"

	"github.com/mrlokans/printingpress/internal/entities"
)

// GetEvents returns events newest first, optionally only unread ones.
func (s *Store) GetEvents(unreadOnly bool) []entities.NotificationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]entities.NotificationEvent, 0, len(s.state.Events))
	for _, event := range s.state.Events {
		if unreadOnly && event.Read {
			continue
		}
		events = append(events, event)
	}
	return events
}

func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, event := range s.state.Events {
		if !event.Read {
			count++
		}
	}
	return count
}

// AddEvent prepends the event, assigning an ID and timestamp when missing,
// and drops the oldest events beyond entities.MaxEvents.
func (s *Store) AddEvent(event entities.NotificationEvent) (entities.NotificationEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}

	events := make([]entities.NotificationEvent, 0, len(s.state.Events)+1)
	events = append(events, event)
	events = append(events, s.state.Events...)
	if len(events) > entities.MaxEvents {
		events = events[:entities.MaxEvents]
	}
	s.state.Events = events

	return event, s.saveStateLocked()
}

// MarkEventRead reports whether an event with the ID exists.
func (s *Store) MarkEventRead(eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Events {
		if s.state.Events[i].ID == eventID {
			s.state.Events[i].Read = true
			return true, s.saveStateLocked()
		}
	}
	return false, nil
}

func (s *Store) MarkAllEventsRead() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Events {
		s.state.Events[i].Read = true
	}
	return s.saveStateLocked()
}

func (s *Store) ClearEvents() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Events = []entities.NotificationEvent{}
	return s.saveStateLocked()
}
