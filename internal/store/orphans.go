package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// CleanupOrphanFiles removes markdown files in the content directory that no
// library entry references. Files modified within minAge are kept, since a
// running pipeline writes its file before adding the entry. With dryRun set
// nothing is deleted. It returns the orphan filenames, sorted.
func (s *Store) CleanupOrphanFiles(minAge time.Duration, dryRun bool) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	referenced := make(map[string]struct{}, len(s.library))
	for _, entry := range s.library {
		referenced[filepath.Clean(s.contentPath(entry))] = struct{}{}
	}

	dirEntries, err := os.ReadDir(s.ContentDir())
	if err != nil {
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	cutoff := s.now().Add(-minAge)
	orphans := []string{}
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.ContentDir(), de.Name())
		if _, ok := referenced[filepath.Clean(path)]; ok {
			continue
		}
		info, err := de.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		orphans = append(orphans, de.Name())
		if dryRun {
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Printf("[STORE] Warning: could not remove orphan file %s: %v", de.Name(), err)
		}
	}

	sort.Strings(orphans)
	return orphans, nil
}
