package http

import (
	"github.com/mrlokans/printingpress/internal/database"
	"github.com/mrlokans/printingpress/internal/metrics"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Store     Store
	Catalog   CatalogService
	Processor BookProcessor
	Search    LibrarySearcher

	// SQLite database, only set for the sqlite storage backend
	Database *database.Database

	// Content directory checked by /health
	ContentDir string

	// Search limits for /api/library/search
	SearchDefaultLimit int
	SearchMaxLimit     int

	// Cover image cache (optional)
	Covers CoverCache

	// Task queue client (optional)
	TaskClient TaskQueue

	// Prometheus metrics (optional)
	Metrics *metrics.Metrics

	// Application info
	Version string
}
