package store

import "github.com/mrlokans/printingpress/internal/entities"

func (s *Store) GetBookmark(bookID int) (entities.Bookmark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmark, ok := s.state.Bookmarks[bookID]
	return bookmark, ok
}

func (s *Store) GetAllBookmarks() map[int]entities.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks := make(map[int]entities.Bookmark, len(s.state.Bookmarks))
	for id, bookmark := range s.state.Bookmarks {
		bookmarks[id] = bookmark
	}
	return bookmarks
}

// SetBookmark upserts the bookmark for a library book. UpdatedAt is always
// refreshed; CreatedAt is kept from an existing bookmark.
func (s *Store) SetBookmark(bookmark entities.Bookmark) (entities.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.libraryIndexLocked(bookmark.BookID) < 0 {
		return entities.Bookmark{}, ErrNotInLibrary
	}

	now := s.now()
	if existing, ok := s.state.Bookmarks[bookmark.BookID]; ok {
		bookmark.CreatedAt = existing.CreatedAt
	} else if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = now
	}
	bookmark.UpdatedAt = now

	s.state.Bookmarks[bookmark.BookID] = bookmark
	return bookmark, s.saveStateLocked()
}

// DeleteBookmark reports whether a bookmark existed.
func (s *Store) DeleteBookmark(bookID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Bookmarks[bookID]; !ok {
		return false, nil
	}
	delete(s.state.Bookmarks, bookID)
	return true, s.saveStateLocked()
}
