package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/printingpress/internal/entities"
	"github.com/mrlokans/printingpress/internal/metrics"
	"github.com/mrlokans/printingpress/internal/utils"
)

var errNoContent = errors.New("could not fetch book content")

func (p *Processor) run(ctx context.Context, h *handle, book entities.SourceBook) {
	defer p.wg.Done()
	defer close(h.done)
	defer h.cancel()

	started := time.Now()
	p.metrics.StartBook()

	outcome := p.process(ctx, h, book)

	p.metrics.FinishBook(outcome, time.Since(started))
	log.Printf("[PROCESSOR] Book %d finished: %s in %v", book.ID, outcome, time.Since(started).Round(time.Millisecond))
}

// process runs the pipeline and settles its result. Every error and panic
// ends here; nothing propagates past it.
func (p *Processor) process(ctx context.Context, h *handle, book entities.SourceBook) (outcome string) {
	defer p.release(book.ID, h)
	defer func() {
		if r := recover(); r != nil {
			outcome = p.fail(h, book, fmt.Errorf("internal error: %v", r))
		}
	}()

	entry, err := p.pipeline(ctx, h, book)
	if err != nil {
		if ctx.Err() != nil {
			return metrics.OutcomeCancelled
		}
		return p.fail(h, book, err)
	}

	p.complete(h, book, entry)
	return metrics.OutcomeCompleted
}

func (p *Processor) pipeline(ctx context.Context, h *handle, book entities.SourceBook) (entities.LibraryEntry, error) {
	p.setStatus(book.ID, h, entities.ProcessingStatusFetching,
		fmt.Sprintf("Fetching content for '%s'...", book.Title), "")

	content, err := p.fetcher.FetchContent(ctx, book)
	if err != nil {
		return entities.LibraryEntry{}, fmt.Errorf("%w: %v", errNoContent, err)
	}
	if content == nil || content.Text == "" {
		return entities.LibraryEntry{}, errNoContent
	}
	if err := ctx.Err(); err != nil {
		return entities.LibraryEntry{}, err
	}

	p.setStatus(book.ID, h, entities.ProcessingStatusConverting, "Converting to Markdown...", "")
	markdown := p.converter.Convert(content.Text, book)

	if p.config.EmbedImages {
		embedded, err := p.converter.EmbedImages(ctx, markdown, content.SourceURL)
		switch {
		case ctx.Err() != nil:
			return entities.LibraryEntry{}, ctx.Err()
		case err != nil:
			log.Printf("[PROCESSOR] Warning: embedding images failed for %d: %v", book.ID, err)
		default:
			markdown = embedded
		}
	}

	if absolute, err := p.converter.AbsolutizeLinks(markdown, content.SourceURL); err != nil {
		log.Printf("[PROCESSOR] Warning: absolutizing links failed for %d: %v", book.ID, err)
	} else {
		markdown = absolute
	}
	if err := ctx.Err(); err != nil {
		return entities.LibraryEntry{}, err
	}

	p.setStatus(book.ID, h, entities.ProcessingStatusFixing, "Applying Markdown fixes...", "")
	markdown = p.converter.ApplyFixes(markdown)
	if err := ctx.Err(); err != nil {
		return entities.LibraryEntry{}, err
	}

	p.setStatus(book.ID, h, entities.ProcessingStatusSaving, "Saving to library...", "")
	relPath, err := p.store.WriteContent(utils.BookFilename(book.ID, book.Title), markdown)
	if err != nil {
		return entities.LibraryEntry{}, err
	}

	entry := entities.LibraryEntry{
		ID:           book.ID,
		Title:        book.Title,
		Authors:      book.Authors,
		Subjects:     book.Subjects,
		Languages:    book.Languages,
		MarkdownPath: relPath,
		AddedAt:      p.now(),
		WordCount:    len(strings.Fields(markdown)),
		CharCount:    utf8.RuneCountInString(markdown),
		CoverURL:     book.CoverURL(),
	}

	if err := p.commit(ctx, h, entry); err != nil {
		return entities.LibraryEntry{}, err
	}
	return entry, nil
}

// commit adds the entry to the library unless the pipeline was cancelled.
// A content file written before a cancellation stays on disk unreferenced.
func (p *Processor) commit(ctx context.Context, h *handle, entry entities.LibraryEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isCurrentLocked(entry.ID, h) || ctx.Err() != nil {
		return context.Canceled
	}
	if err := p.store.AddToLibrary(entry); err != nil {
		return fmt.Errorf("save library entry: %w", err)
	}
	return nil
}

func (p *Processor) complete(h *handle, book entities.SourceBook, entry entities.LibraryEntry) {
	p.setStatus(book.ID, h, entities.ProcessingStatusCompleted, "Book added to library!", "")

	if p.index != nil {
		p.index.AddBook(entry)
	}

	p.addEvent(entities.NotificationEvent{
		Kind:    entities.EventKindBookReady,
		Title:   "Book Ready!",
		Message: fmt.Sprintf("'%s' has been added to your library.", book.Title),
		BookID:  &book.ID,
	})
}

func (p *Processor) fail(h *handle, book entities.SourceBook, err error) string {
	log.Printf("[PROCESSOR] Processing book %d failed: %v", book.ID, err)

	p.setStatus(book.ID, h, entities.ProcessingStatusFailed, "Processing failed", err.Error())
	p.addEvent(entities.NotificationEvent{
		Kind:    entities.EventKindProcessingFailed,
		Title:   "Processing Failed",
		Message: fmt.Sprintf("Failed to process '%s': %v", book.Title, err),
		BookID:  &book.ID,
	})
	return metrics.OutcomeFailed
}

func (p *Processor) addEvent(event entities.NotificationEvent) {
	event.CreatedAt = p.now()
	if _, err := p.store.AddEvent(event); err != nil {
		log.Printf("[PROCESSOR] Warning: could not record event %q: %v", event.Title, err)
	}
}
