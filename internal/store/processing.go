package store

import "github.com/mrlokans/printingpress/internal/entities"

func (s *Store) GetProcessing() []entities.ProcessingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.ProcessingRecord{}, s.state.Processing...)
}

// GetProcessingRecord returns a copy of the record for the book.
func (s *Store) GetProcessingRecord(bookID int) (entities.ProcessingRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.processingIndexLocked(bookID); i >= 0 {
		return s.state.Processing[i], true
	}
	return entities.ProcessingRecord{}, false
}

// AddToProcessing records a book entering the pipeline. A record that
// already exists for the book is left as is; the result reports whether a
// record was added.
func (s *Store) AddToProcessing(record entities.ProcessingRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processingIndexLocked(record.Book.ID) >= 0 {
		return false, nil
	}
	if record.StartedAt.IsZero() {
		record.StartedAt = s.now()
	}
	s.state.Processing = append(s.state.Processing, record)
	return true, s.saveStateLocked()
}

// UpdateProcessingStatus mutates the book's record in place. An empty
// errorMessage keeps the previous one. Unknown books are ignored.
func (s *Store) UpdateProcessingStatus(bookID int, status entities.ProcessingStatus, progress, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.processingIndexLocked(bookID)
	if i < 0 {
		return nil
	}
	record := &s.state.Processing[i]
	record.Status = status
	record.ProgressMessage = progress
	if errorMessage != "" {
		record.ErrorMessage = errorMessage
	}
	return s.saveStateLocked()
}

// RemoveFromProcessing removes and returns the book's record, if any.
func (s *Store) RemoveFromProcessing(bookID int) (*entities.ProcessingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.processingIndexLocked(bookID)
	if i < 0 {
		return nil, nil
	}
	removed := s.state.Processing[i]
	s.state.Processing = append(s.state.Processing[:i:i], s.state.Processing[i+1:]...)
	return &removed, s.saveStateLocked()
}

func (s *Store) processingIndexLocked(bookID int) int {
	for i, record := range s.state.Processing {
		if record.Book.ID == bookID {
			return i
		}
	}
	return -1
}
