// Package search scores library books against free-text queries using
// three signals: term-vector similarity, substring matches and pattern
// matches. The index lives in memory only and is rebuilt from the library
// on startup.
package search

import (
	"context"
	"log"
	"math"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/mrlokans/printingpress/internal/entities"
)

// wordRun matches Unicode word-character runs, so a token never starts or
// ends inside a longer non-ASCII word.
var wordRun = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)

// termPattern selects the runs kept as terms.
var termPattern = regexp.MustCompile(`^[a-z]{3,}$`)

// Library is the read side of the store the index is built from.
type Library interface {
	GetLibrary() []entities.LibraryEntry
	ContentPath(entry entities.LibraryEntry) string
}

// termVector maps a word to its relative frequency within a document.
type termVector struct {
	weights map[string]float64
	norm    float64
}

type indexedBook struct {
	content string // lowercased
	vector  termVector
}

// Index holds lowercased content and term vectors per book ID.
type Index struct {
	mu      sync.RWMutex
	library Library
	books   map[int]indexedBook
}

func NewIndex(library Library) *Index {
	return &Index{
		library: library,
		books:   make(map[int]indexedBook),
	}
}

// BuildIndex replaces the index with the given entries. Entries whose
// content file cannot be read are skipped and logged.
func (idx *Index) BuildIndex(ctx context.Context, entries []entities.LibraryEntry) error {
	books := make(map[int]indexedBook, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		book, err := idx.load(entry)
		if err != nil {
			log.Printf("[SEARCH] Error indexing book %d: %v", entry.ID, err)
			continue
		}
		books[entry.ID] = book
	}

	idx.mu.Lock()
	idx.books = books
	idx.mu.Unlock()

	log.Printf("[SEARCH] Indexed %d of %d library books", len(books), len(entries))
	return nil
}

// RebuildIndex rebuilds the index from the current library contents.
func (idx *Index) RebuildIndex(ctx context.Context) error {
	return idx.BuildIndex(ctx, idx.library.GetLibrary())
}

// AddBook indexes a single entry, replacing any previous data for its ID.
func (idx *Index) AddBook(entry entities.LibraryEntry) {
	book, err := idx.load(entry)
	if err != nil {
		log.Printf("[SEARCH] Error indexing book %d: %v", entry.ID, err)
		return
	}

	idx.mu.Lock()
	idx.books[entry.ID] = book
	idx.mu.Unlock()
}

// InvalidateBook drops a book from the index.
func (idx *Index) InvalidateBook(bookID int) {
	idx.mu.Lock()
	delete(idx.books, bookID)
	idx.mu.Unlock()
}

// Size returns the number of indexed books.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.books)
}

func (idx *Index) load(entry entities.LibraryEntry) (indexedBook, error) {
	data, err := os.ReadFile(idx.library.ContentPath(entry))
	if err != nil {
		return indexedBook{}, err
	}
	content := strings.ToLower(string(data))
	return indexedBook{
		content: content,
		vector:  buildTermVector(content),
	}, nil
}

func (idx *Index) lookup(bookID int) (indexedBook, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	book, ok := idx.books[bookID]
	return book, ok
}

// buildTermVector tokenizes text into lowercase alphabetic words of three or
// more letters and normalizes their counts to frequencies.
func buildTermVector(text string) termVector {
	var words []string
	for _, run := range wordRun.FindAllString(strings.ToLower(text), -1) {
		if termPattern.MatchString(run) {
			words = append(words, run)
		}
	}
	if len(words) == 0 {
		return termVector{}
	}

	counts := make(map[string]int)
	for _, word := range words {
		counts[word]++
	}

	total := float64(len(words))
	weights := make(map[string]float64, len(counts))
	var sumSquares float64
	for word, count := range counts {
		w := float64(count) / total
		weights[word] = w
		sumSquares += w * w
	}

	return termVector{weights: weights, norm: math.Sqrt(sumSquares)}
}

// cosine returns the cosine similarity of two vectors, zero when either is
// empty.
func cosine(a, b termVector) float64 {
	if len(a.weights) == 0 || len(b.weights) == 0 || a.norm == 0 || b.norm == 0 {
		return 0
	}
	small, large := a.weights, b.weights
	if len(small) > len(large) {
		small, large = large, small
	}
	var dot float64
	for word, w := range small {
		dot += w * large[word]
	}
	return dot / (a.norm * b.norm)
}
