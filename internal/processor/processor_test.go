package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/printingpress/internal/converter"
	"github.com/mrlokans/printingpress/internal/entities"
	"github.com/mrlokans/printingpress/internal/gutenberg"
	"github.com/mrlokans/printingpress/internal/metrics"
	"github.com/mrlokans/printingpress/internal/store"
)

const sampleText = "*** START OF THE PROJECT GUTENBERG EBOOK ***\n" +
	"CHAPTER I\n\n" +
	"Call me Ishmael. Some years ago.\n" +
	"*** END OF THE PROJECT GUTENBERG EBOOK ***\n"

type fakeFetcher struct {
	mu    sync.Mutex
	calls int

	content *gutenberg.Content
	err     error
	panics  bool

	started chan struct{} // receives once per call when non-nil
	gate    chan struct{} // when non-nil, calls block until it is closed
	waitCtx bool          // when true, calls block until the context ends
}

func (f *fakeFetcher) FetchContent(ctx context.Context, book entities.SourceBook) (*gutenberg.Content, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.waitCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.panics {
		panic("converter exploded")
	}
	return f.content, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeIndexer struct {
	mu    sync.Mutex
	added []int
}

func (f *fakeIndexer) AddBook(entry entities.LibraryEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, entry.ID)
}

// recordingStore captures every status transition on top of a real store.
type recordingStore struct {
	*store.Store
	mu       sync.Mutex
	statuses []entities.ProcessingStatus
}

func (r *recordingStore) UpdateProcessingStatus(bookID int, status entities.ProcessingStatus, progress, errorMessage string) error {
	r.mu.Lock()
	r.statuses = append(r.statuses, status)
	r.mu.Unlock()
	return r.Store.UpdateProcessingStatus(bookID, status, progress, errorMessage)
}

func (r *recordingStore) recorded() []entities.ProcessingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.ProcessingStatus{}, r.statuses...)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	root := t.TempDir()
	booksDir := filepath.Join(root, "books")
	s := store.New(
		store.NewFileDocument(filepath.Join(root, "state.json")),
		store.NewFileDocument(filepath.Join(booksDir, "index.json")),
		booksDir,
	)
	require.NoError(t, s.Load())
	return s
}

func mobyDick() entities.SourceBook {
	return entities.SourceBook{
		ID:        2701,
		Title:     "Moby Dick; Or, The Whale",
		Authors:   []string{"Melville, Herman"},
		Subjects:  []string{"Whaling -- Fiction"},
		Languages: []string{"en"},
		Formats: map[string]string{
			"text/plain": "https://example.org/ebooks/2701.txt",
			"image/jpeg": "https://example.org/cache/epub/2701/cover.jpg",
		},
	}
}

func textContent() *gutenberg.Content {
	return &gutenberg.Content{Text: sampleText, SourceURL: "https://example.org/ebooks/2701.txt"}
}

func newTestProcessor(fetcher ContentFetcher, st StateStore, index Indexer) *Processor {
	return New(fetcher, converter.New(nil, 0), st, index, metrics.New(), Config{EmbedImages: true})
}

func TestStartProcessing_Success(t *testing.T) {
	st := &recordingStore{Store: newTestStore(t)}
	index := &fakeIndexer{}
	p := newTestProcessor(&fakeFetcher{content: textContent()}, st, index)

	require.True(t, p.StartProcessing(mobyDick()))
	p.Wait()

	assert.Empty(t, st.GetProcessing())
	assert.Empty(t, p.Active())

	entry, ok := st.GetLibraryEntry(2701)
	require.True(t, ok)
	assert.Equal(t, "markdown/2701_Moby_Dick_Or_The_Whale.md", entry.MarkdownPath)
	assert.Equal(t, []string{"Melville, Herman"}, entry.Authors)
	assert.Equal(t, "https://example.org/cache/epub/2701/cover.jpg", entry.CoverURL)

	content, err := st.ReadContent(2701)
	require.NoError(t, err)
	assert.Contains(t, content, "# Moby Dick; Or, The Whale")
	assert.Contains(t, content, "## CHAPTER I")
	assert.Contains(t, content, "Call me Ishmael. Some years ago.")
	assert.NotContains(t, content, "START OF")
	assert.Equal(t, len([]rune(content)), entry.CharCount)
	assert.Greater(t, entry.WordCount, 10)

	events := st.GetEvents(false)
	require.Len(t, events, 1)
	assert.Equal(t, entities.EventKindBookReady, events[0].Kind)
	assert.Equal(t, "Book Ready!", events[0].Title)
	require.NotNil(t, events[0].BookID)
	assert.Equal(t, 2701, *events[0].BookID)

	assert.Equal(t, []int{2701}, index.added)
	assert.Equal(t, []entities.ProcessingStatus{
		entities.ProcessingStatusFetching,
		entities.ProcessingStatusConverting,
		entities.ProcessingStatusFixing,
		entities.ProcessingStatusSaving,
		entities.ProcessingStatusCompleted,
	}, st.recorded())
}

func TestStartProcessing_DoubleStartIsNoop(t *testing.T) {
	st := newTestStore(t)
	fetcher := &fakeFetcher{
		content: textContent(),
		started: make(chan struct{}, 2),
		gate:    make(chan struct{}),
	}
	p := newTestProcessor(fetcher, st, nil)

	assert.True(t, p.StartProcessing(mobyDick()))
	assert.False(t, p.StartProcessing(mobyDick()))

	<-fetcher.started
	assert.Len(t, st.GetProcessing(), 1)
	assert.Equal(t, []int{2701}, p.Active())
	assert.True(t, p.IsActive(2701))

	close(fetcher.gate)
	p.Wait()

	assert.Equal(t, 1, fetcher.callCount())
	assert.Len(t, st.GetEvents(false), 1)
	assert.Len(t, st.GetLibrary(), 1)
}

func TestStartProcessing_FetchFailure(t *testing.T) {
	st := &recordingStore{Store: newTestStore(t)}
	p := newTestProcessor(&fakeFetcher{err: gutenberg.ErrNoContent}, st, nil)

	p.StartProcessing(mobyDick())
	p.Wait()

	assert.Empty(t, st.GetProcessing())
	assert.Empty(t, st.GetLibrary())

	events := st.GetEvents(false)
	require.Len(t, events, 1)
	assert.Equal(t, entities.EventKindProcessingFailed, events[0].Kind)
	assert.Equal(t, "Processing Failed", events[0].Title)
	assert.Contains(t, events[0].Message, "Failed to process 'Moby Dick; Or, The Whale': could not fetch book content")

	assert.Equal(t, []entities.ProcessingStatus{
		entities.ProcessingStatusFetching,
		entities.ProcessingStatusFailed,
	}, st.recorded())

	entries, err := os.ReadDir(st.ContentDir())
	require.NoError(t, err)
	assert.Empty(t, entries, "no file is written for a failed fetch")
}

func TestStartProcessing_EmptyContentFails(t *testing.T) {
	st := newTestStore(t)
	p := newTestProcessor(&fakeFetcher{content: &gutenberg.Content{}}, st, nil)

	p.StartProcessing(mobyDick())
	p.Wait()

	events := st.GetEvents(false)
	require.Len(t, events, 1)
	assert.Equal(t, entities.EventKindProcessingFailed, events[0].Kind)
	assert.Empty(t, st.GetLibrary())
}

func TestStartProcessing_PanicBecomesFailure(t *testing.T) {
	st := newTestStore(t)
	p := newTestProcessor(&fakeFetcher{panics: true}, st, nil)

	p.StartProcessing(mobyDick())
	p.Wait()

	assert.Empty(t, st.GetProcessing())
	events := st.GetEvents(false)
	require.Len(t, events, 1)
	assert.Equal(t, entities.EventKindProcessingFailed, events[0].Kind)
	assert.Contains(t, events[0].Message, "converter exploded")
}

func TestCancelProcessing(t *testing.T) {
	st := newTestStore(t)
	fetcher := &fakeFetcher{started: make(chan struct{}, 1), waitCtx: true}
	p := newTestProcessor(fetcher, st, nil)

	p.StartProcessing(mobyDick())
	<-fetcher.started

	assert.True(t, p.CancelProcessing(2701))
	assert.False(t, p.CancelProcessing(2701))
	assert.Empty(t, st.GetProcessing())

	p.Wait()

	assert.Empty(t, st.GetProcessing())
	assert.Empty(t, st.GetLibrary())
	assert.Empty(t, st.GetEvents(false), "cancellation emits no event")
	assert.Empty(t, p.Active())
}

func TestCancelProcessing_Unknown(t *testing.T) {
	p := newTestProcessor(&fakeFetcher{}, newTestStore(t), nil)
	assert.False(t, p.CancelProcessing(1))
}

func TestCancelProcessing_RestartedPipelineOwnsRecord(t *testing.T) {
	st := newTestStore(t)
	fetcher := &fakeFetcher{
		content: textContent(),
		started: make(chan struct{}, 2),
		gate:    make(chan struct{}),
	}
	p := newTestProcessor(fetcher, st, nil)

	p.StartProcessing(mobyDick())
	<-fetcher.started
	require.True(t, p.CancelProcessing(2701))

	require.True(t, p.StartProcessing(mobyDick()))
	<-fetcher.started

	close(fetcher.gate)
	p.Wait()

	assert.Empty(t, st.GetProcessing())
	assert.Len(t, st.GetLibrary(), 1)
	events := st.GetEvents(false)
	require.Len(t, events, 1)
	assert.Equal(t, entities.EventKindBookReady, events[0].Kind)
}

func TestStop_LeavesRecordsForRecovery(t *testing.T) {
	st := newTestStore(t)
	fetcher := &fakeFetcher{started: make(chan struct{}, 1), waitCtx: true}
	p := newTestProcessor(fetcher, st, nil)

	p.StartProcessing(mobyDick())
	<-fetcher.started

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))

	assert.Len(t, st.GetProcessing(), 1)
	assert.Empty(t, st.GetEvents(false))
	assert.False(t, p.StartProcessing(mobyDick()), "stopped processor refuses work")
}

type failingContentStore struct {
	*store.Store
}

func (f *failingContentStore) WriteContent(filename, markdown string) (string, error) {
	return "", errors.New("disk full")
}

func TestStartProcessing_SaveFailure(t *testing.T) {
	st := &failingContentStore{Store: newTestStore(t)}
	p := newTestProcessor(&fakeFetcher{content: textContent()}, st, nil)

	p.StartProcessing(mobyDick())
	p.Wait()

	assert.Empty(t, st.GetLibrary())
	events := st.GetEvents(false)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Message, "disk full")
}
