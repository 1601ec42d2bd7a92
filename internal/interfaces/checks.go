package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/printingpress/internal/converter"
	"github.com/mrlokans/printingpress/internal/covers"
	"github.com/mrlokans/printingpress/internal/database"
	"github.com/mrlokans/printingpress/internal/gutenberg"
	"github.com/mrlokans/printingpress/internal/http"
	"github.com/mrlokans/printingpress/internal/processor"
	"github.com/mrlokans/printingpress/internal/scheduler"
	"github.com/mrlokans/printingpress/internal/search"
	"github.com/mrlokans/printingpress/internal/store"
	"github.com/mrlokans/printingpress/internal/tasks"
)

// =============================================================================
// Persistence
// =============================================================================

// Document backends
var _ store.Document = (*store.FileDocument)(nil)
var _ store.Document = (*database.Document)(nil)

// Store consumers
var _ http.Store = (*store.Store)(nil)
var _ processor.StateStore = (*store.Store)(nil)
var _ search.Library = (*store.Store)(nil)
var _ tasks.OrphanFilesCleaner = (*store.Store)(nil)

// =============================================================================
// Pipeline
// =============================================================================

var _ http.BookProcessor = (*processor.Processor)(nil)
var _ processor.Indexer = (*search.Index)(nil)

// =============================================================================
// Search
// =============================================================================

var _ http.LibrarySearcher = (*search.Index)(nil)
var _ tasks.IndexRebuilder = (*search.Index)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ http.CatalogService = (*gutenberg.Client)(nil)
var _ processor.ContentFetcher = (*gutenberg.Client)(nil)
var _ converter.ImageFetcher = (*gutenberg.Client)(nil)
var _ covers.Fetcher = (*gutenberg.Client)(nil)

// =============================================================================
// Covers
// =============================================================================

var _ http.CoverCache = (*covers.Cache)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
