package entities

import "time"

// PersistedState is the aggregate of queue, event and bookmark state that is
// written as a single document.
type PersistedState struct {
	Basket     []BasketItem        `json:"basket"`
	Processing []ProcessingRecord  `json:"processing"`
	Events     []NotificationEvent `json:"events"`
	Bookmarks  map[int]Bookmark    `json:"bookmarks"` // book ID -> bookmark
}

// NewPersistedState returns an empty aggregate with non-nil collections.
func NewPersistedState() *PersistedState {
	return &PersistedState{
		Basket:     []BasketItem{},
		Processing: []ProcessingRecord{},
		Events:     []NotificationEvent{},
		Bookmarks:  map[int]Bookmark{},
	}
}

// Normalize replaces nil collections left by decoding partial documents.
func (s *PersistedState) Normalize() {
	if s.Basket == nil {
		s.Basket = []BasketItem{}
	}
	if s.Processing == nil {
		s.Processing = []ProcessingRecord{}
	}
	if s.Events == nil {
		s.Events = []NotificationEvent{}
	}
	if s.Bookmarks == nil {
		s.Bookmarks = map[int]Bookmark{}
	}
}

// InBasket reports whether the book is already in the basket.
func (s *PersistedState) InBasket(bookID int) bool {
	for _, item := range s.Basket {
		if item.Book.ID == bookID {
			return true
		}
	}
	return false
}

// RequeueProcessing moves every in-flight record back to the basket,
// keeping the original start time as the basket time. It returns the
// number of records moved.
func (s *PersistedState) RequeueProcessing() int {
	moved := len(s.Processing)
	for _, record := range s.Processing {
		if s.InBasket(record.Book.ID) {
			continue
		}
		s.Basket = append(s.Basket, BasketItem{
			Book:    record.Book,
			AddedAt: record.StartedAt,
		})
	}
	s.Processing = []ProcessingRecord{}
	return moved
}

// Document is a named persisted JSON document stored in SQLite.
type Document struct {
	Name      string    `gorm:"primaryKey;size:100" json:"name"`
	Data      string    `gorm:"type:text" json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}
