package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/printingpress/internal/entities"
	"github.com/mrlokans/printingpress/internal/gutenberg"
)

// This file consolidates the interfaces used by HTTP controllers.
// Each controller depends on the narrowest set of operations it needs;
// *store.Store, *search.Index, *processor.Processor, *gutenberg.Client and
// *tasks.Client satisfy them in production.

// CatalogService looks books up in the external catalog.
type CatalogService interface {
	SearchBooks(ctx context.Context, query string, page int, languages []string) (*gutenberg.SearchPage, error)
	GetBook(ctx context.Context, id int) (*entities.SourceBook, error)
}

// BasketStore manages the pending basket and answers membership questions.
type BasketStore interface {
	GetBasket() []entities.BasketItem
	InBasket(bookID int) bool
	AddToBasket(item entities.BasketItem) (bool, error)
	RemoveFromBasket(bookID int) (*entities.BasketItem, error)
	ClearBasket() ([]entities.BasketItem, error)
	IsInLibrary(bookID int) bool
	GetProcessingRecord(bookID int) (entities.ProcessingRecord, bool)
}

// ProcessingStore drains the basket into processing and reports progress.
type ProcessingStore interface {
	ClearBasket() ([]entities.BasketItem, error)
	GetProcessing() []entities.ProcessingRecord
	GetProcessingRecord(bookID int) (entities.ProcessingRecord, bool)
}

// BookProcessor runs the conversion pipeline.
type BookProcessor interface {
	StartProcessing(book entities.SourceBook) bool
	CancelProcessing(bookID int) bool
}

// LibraryStore provides access to converted books.
type LibraryStore interface {
	GetLibrary() []entities.LibraryEntry
	GetLibraryEntry(bookID int) (entities.LibraryEntry, bool)
	ReadContent(bookID int) (string, error)
	GetBookmark(bookID int) (entities.Bookmark, bool)
	RemoveFromLibrary(bookID int) (bool, error)
}

// LibrarySearcher scores library books and keeps its index in step with
// library changes.
type LibrarySearcher interface {
	Search(query string, limit int) []entities.SearchResult
	InvalidateBook(bookID int)
	RebuildIndex(ctx context.Context) error
	Size() int
}

// CoverCache serves locally cached cover images.
type CoverCache interface {
	GetCover(ctx context.Context, bookID int, coverURL string) (string, error)
	InvalidateCover(bookID int) error
}

// BookmarkStore manages reading positions.
type BookmarkStore interface {
	GetAllBookmarks() map[int]entities.Bookmark
	GetBookmark(bookID int) (entities.Bookmark, bool)
	SetBookmark(bookmark entities.Bookmark) (entities.Bookmark, error)
	DeleteBookmark(bookID int) (bool, error)
}

// EventStore manages notification events.
type EventStore interface {
	GetEvents(unreadOnly bool) []entities.NotificationEvent
	UnreadCount() int
	MarkEventRead(eventID string) (bool, error)
	MarkAllEventsRead() error
	ClearEvents() error
}

// StatusStore exposes the sizes of each collection.
type StatusStore interface {
	GetBasket() []entities.BasketItem
	GetProcessing() []entities.ProcessingRecord
	GetLibrary() []entities.LibraryEntry
	UnreadCount() int
}

// TaskQueue enqueues background tasks and reports their status.
type TaskQueue interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// Store combines every store interface; *store.Store implements it.
type Store interface {
	BasketStore
	ProcessingStore
	LibraryStore
	BookmarkStore
	EventStore
	StatusStore
}
