// Package store persists queue, event and bookmark state together with the
// library index, and owns the converted content files.
//
// Two documents are kept independently: the aggregate state (basket,
// processing, events, bookmarks) and the library index. Every mutation
// holds the store lock for its whole read-modify-write-persist sequence and
// rewrites the affected document in full.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mrlokans/printingpress/internal/entities"
)

// ContentDirName is the directory under the books directory holding one
// markdown file per library entry.
const ContentDirName = "markdown"

var ErrNotInLibrary = errors.New("book is not in the library")

type Store struct {
	mu sync.Mutex

	stateDoc   Document
	libraryDoc Document
	booksDir   string

	state   *entities.PersistedState
	library []entities.LibraryEntry

	now func() time.Time
}

// New creates a store. Call Load before use to read persisted documents.
func New(stateDoc, libraryDoc Document, booksDir string) *Store {
	return &Store{
		stateDoc:   stateDoc,
		libraryDoc: libraryDoc,
		booksDir:   booksDir,
		state:      entities.NewPersistedState(),
		library:    []entities.LibraryEntry{},
		now:        time.Now,
	}
}

// Load reads both documents. Missing or unreadable documents fall back to
// empty state. Records left in processing by a previous run are moved back
// to the basket and the state document is rewritten immediately.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.ContentDir(), 0755); err != nil {
		return fmt.Errorf("create content directory: %w", err)
	}

	s.state = entities.NewPersistedState()
	if err := loadDocument(s.stateDoc, s.state); err != nil {
		log.Printf("[STORE] Warning: could not load state document: %v", err)
		s.state = entities.NewPersistedState()
	}
	s.state.Normalize()

	if len(s.state.Processing) > 0 {
		moved := s.state.RequeueProcessing()
		log.Printf("[STORE] Moved %d interrupted book(s) back to the basket", moved)
		if err := s.saveStateLocked(); err != nil {
			log.Printf("[STORE] Warning: could not persist recovered state: %v", err)
		}
	}

	var library []entities.LibraryEntry
	if err := loadDocument(s.libraryDoc, &library); err != nil {
		log.Printf("[STORE] Warning: could not load library index: %v", err)
		library = nil
	}
	if library == nil {
		library = []entities.LibraryEntry{}
	}
	s.library = library

	return nil
}

// loadDocument decodes doc into v. A document that does not exist yet
// leaves v untouched and is not an error.
func loadDocument(doc Document, v any) error {
	data, err := doc.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func (s *Store) saveStateLocked() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.stateDoc.Save(data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *Store) saveLibraryLocked() error {
	data, err := json.MarshalIndent(s.library, "", "  ")
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	if err := s.libraryDoc.Save(data); err != nil {
		return fmt.Errorf("save library: %w", err)
	}
	return nil
}

// BooksDir returns the root directory for library content.
func (s *Store) BooksDir() string {
	return s.booksDir
}

// ContentDir returns the directory holding converted markdown files.
func (s *Store) ContentDir() string {
	return filepath.Join(s.booksDir, ContentDirName)
}
