package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/printingpress/internal/entities"
	"github.com/mrlokans/printingpress/internal/utils"
)

// ContentPath returns the absolute location of the entry's markdown file.
func (s *Store) ContentPath(entry entities.LibraryEntry) string {
	return s.contentPath(entry)
}

func (s *Store) contentPath(entry entities.LibraryEntry) string {
	return filepath.Join(s.booksDir, filepath.FromSlash(entry.MarkdownPath))
}

// RelativeContentPath is the MarkdownPath stored for a content filename.
func RelativeContentPath(filename string) string {
	return ContentDirName + "/" + filename
}

// ReadContent returns the markdown of a library book.
func (s *Store) ReadContent(bookID int) (string, error) {
	entry, ok := s.GetLibraryEntry(bookID)
	if !ok {
		return "", ErrNotInLibrary
	}
	data, err := os.ReadFile(s.contentPath(entry))
	if err != nil {
		return "", fmt.Errorf("read content for book %d: %w", bookID, err)
	}
	return string(data), nil
}

// WriteContent atomically writes markdown under the content directory and
// returns the path relative to the books directory.
func (s *Store) WriteContent(filename, markdown string) (string, error) {
	relPath := RelativeContentPath(filename)
	path := filepath.Join(s.booksDir, filepath.FromSlash(relPath))
	if err := utils.WriteFileAtomic(path, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("write content %s: %w", filename, err)
	}
	return relPath, nil
}
