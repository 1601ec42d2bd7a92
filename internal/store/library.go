package store

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/mrlokans/printingpress/internal/entities"
)

func (s *Store) GetLibrary() []entities.LibraryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.LibraryEntry{}, s.library...)
}

// GetLibraryIDs returns the set of book IDs in the library.
func (s *Store) GetLibraryIDs() map[int]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[int]struct{}, len(s.library))
	for _, entry := range s.library {
		ids[entry.ID] = struct{}{}
	}
	return ids
}

func (s *Store) GetLibraryEntry(bookID int) (entities.LibraryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.libraryIndexLocked(bookID); i >= 0 {
		return s.library[i], true
	}
	return entities.LibraryEntry{}, false
}

func (s *Store) IsInLibrary(bookID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.libraryIndexLocked(bookID) >= 0
}

// AddToLibrary inserts the entry, replacing an existing entry with the same
// ID in place.
func (s *Store) AddToLibrary(entry entities.LibraryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addToLibraryLocked(entry)
}

func (s *Store) addToLibraryLocked(entry entities.LibraryEntry) error {
	if i := s.libraryIndexLocked(entry.ID); i >= 0 {
		s.library[i] = entry
	} else {
		s.library = append(s.library, entry)
	}
	return s.saveLibraryLocked()
}

// RemoveFromLibrary drops the entry, its content file and its bookmark.
// A content file that cannot be deleted is logged and does not stop the
// removal. Unknown IDs return false without touching either document.
func (s *Store) RemoveFromLibrary(bookID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.libraryIndexLocked(bookID)
	if i < 0 {
		return false, nil
	}
	entry := s.library[i]

	if err := os.Remove(s.contentPath(entry)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[STORE] Warning: could not remove book file %s: %v", entry.MarkdownPath, err)
	}

	s.library = append(s.library[:i:i], s.library[i+1:]...)
	delete(s.state.Bookmarks, bookID)

	if err := s.saveLibraryLocked(); err != nil {
		return true, err
	}
	return true, s.saveStateLocked()
}

func (s *Store) libraryIndexLocked(bookID int) int {
	for i, entry := range s.library {
		if entry.ID == bookID {
			return i
		}
	}
	return -1
}
