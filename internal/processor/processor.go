// Package processor drives books through the conversion pipeline.
//
// Each started book runs in its own goroutine with a cancellable context.
// The Processor owns the registry of running pipelines; every write to a
// book's processing record happens while holding the registry lock and only
// from the pipeline currently registered for that book, so a cancelled
// pipeline can never touch a record created by a later restart.
package processor

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mrlokans/printingpress/internal/converter"
	"github.com/mrlokans/printingpress/internal/entities"
	"github.com/mrlokans/printingpress/internal/gutenberg"
	"github.com/mrlokans/printingpress/internal/metrics"
)

// ContentFetcher downloads a book body from the catalog.
type ContentFetcher interface {
	FetchContent(ctx context.Context, book entities.SourceBook) (*gutenberg.Content, error)
}

// StateStore is the subset of the store the pipeline writes to.
type StateStore interface {
	AddToProcessing(record entities.ProcessingRecord) (bool, error)
	UpdateProcessingStatus(bookID int, status entities.ProcessingStatus, progress, errorMessage string) error
	RemoveFromProcessing(bookID int) (*entities.ProcessingRecord, error)
	AddToLibrary(entry entities.LibraryEntry) error
	AddEvent(event entities.NotificationEvent) (entities.NotificationEvent, error)
	WriteContent(filename, markdown string) (string, error)
}

// Indexer receives newly added library entries.
type Indexer interface {
	AddBook(entry entities.LibraryEntry)
}

// Config controls optional pipeline stages.
type Config struct {
	EmbedImages bool
}

type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

type Processor struct {
	fetcher   ContentFetcher
	converter *converter.Converter
	store     StateStore
	index     Indexer
	metrics   *metrics.Metrics
	config    Config

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu      sync.Mutex
	handles map[int]*handle
	stopped bool
	wg      sync.WaitGroup

	now func() time.Time
}

// New creates a Processor. index and m may be nil.
func New(fetcher ContentFetcher, conv *converter.Converter, store StateStore, index Indexer, m *metrics.Metrics, cfg Config) *Processor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Processor{
		fetcher:    fetcher,
		converter:  conv,
		store:      store,
		index:      index,
		metrics:    m,
		config:     cfg,
		baseCtx:    ctx,
		cancelBase: cancel,
		handles:    make(map[int]*handle),
		now:        time.Now,
	}
}

// StartProcessing records the book as queued and launches its pipeline.
// It returns false without doing anything when the book is already in
// flight or the processor is stopped.
func (p *Processor) StartProcessing(book entities.SourceBook) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return false
	}
	if _, ok := p.handles[book.ID]; ok {
		return false
	}

	record := entities.ProcessingRecord{
		Book:            book,
		Status:          entities.ProcessingStatusQueued,
		StartedAt:       p.now(),
		ProgressMessage: "Queued for processing",
	}
	if _, err := p.store.AddToProcessing(record); err != nil {
		log.Printf("[PROCESSOR] Warning: could not persist queued record for book %d: %v", book.ID, err)
	}
	p.metrics.ObserveStage(string(entities.ProcessingStatusQueued))

	ctx, cancel := context.WithCancel(p.baseCtx)
	h := &handle{cancel: cancel, done: make(chan struct{})}
	p.handles[book.ID] = h

	p.wg.Add(1)
	go p.run(ctx, h, book)

	log.Printf("[PROCESSOR] Started processing book %d (%s)", book.ID, book.Title)
	return true
}

// CancelProcessing aborts the book's pipeline and removes its processing
// record. It reports whether the book was in flight.
func (p *Processor) CancelProcessing(bookID int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	h, ok := p.handles[bookID]
	if !ok {
		return false
	}
	delete(p.handles, bookID)
	h.cancel()

	if _, err := p.store.RemoveFromProcessing(bookID); err != nil {
		log.Printf("[PROCESSOR] Warning: could not remove processing record for book %d: %v", bookID, err)
	}

	log.Printf("[PROCESSOR] Cancelled processing of book %d", bookID)
	return true
}

// Active returns the IDs of books with a running pipeline.
func (p *Processor) Active() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]int, 0, len(p.handles))
	for id := range p.handles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// IsActive reports whether the book has a running pipeline.
func (p *Processor) IsActive(bookID int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.handles[bookID]
	return ok
}

// Wait blocks until every started pipeline has returned.
func (p *Processor) Wait() {
	p.wg.Wait()
}

// Stop refuses new work and cancels running pipelines, leaving their
// processing records in place so the next Load moves them back to the
// basket. It waits for pipelines to return or ctx to expire.
func (p *Processor) Stop(ctx context.Context) error {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.cancelBase()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// isCurrentLocked reports whether h is still the registered pipeline for
// the book. Callers hold p.mu.
func (p *Processor) isCurrentLocked(bookID int, h *handle) bool {
	return p.handles[bookID] == h
}

// release deregisters the pipeline and removes its processing record,
// unless it was cancelled or the processor is stopping.
func (p *Processor) release(bookID int, h *handle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isCurrentLocked(bookID, h) {
		return
	}
	delete(p.handles, bookID)
	if p.stopped {
		return
	}
	if _, err := p.store.RemoveFromProcessing(bookID); err != nil {
		log.Printf("[PROCESSOR] Warning: could not remove processing record for book %d: %v", bookID, err)
	}
}

// setStatus updates the processing record if h still owns the book.
func (p *Processor) setStatus(bookID int, h *handle, status entities.ProcessingStatus, progress, errorMessage string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isCurrentLocked(bookID, h) {
		return
	}
	if err := p.store.UpdateProcessingStatus(bookID, status, progress, errorMessage); err != nil {
		log.Printf("[PROCESSOR] Warning: could not update status of book %d: %v", bookID, err)
	}
	p.metrics.ObserveStage(string(status))
}
