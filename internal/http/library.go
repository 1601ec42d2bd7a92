package http

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/printingpress/internal/entities"
	"github.com/mrlokans/printingpress/internal/store"
	"github.com/mrlokans/printingpress/internal/tasks"
)

const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 200
)

// LibraryController serves converted books and library search.
type LibraryController struct {
	store        LibraryStore
	search       LibrarySearcher
	tasks        TaskQueue  // optional
	covers       CoverCache // optional
	defaultLimit int
	maxLimit     int
}

func NewLibraryController(store LibraryStore, search LibrarySearcher, tasks TaskQueue, covers CoverCache, defaultLimit, maxLimit int) *LibraryController {
	if maxLimit <= 0 {
		maxLimit = MaxSearchLimit
	}
	if defaultLimit <= 0 || defaultLimit > maxLimit {
		defaultLimit = min(DefaultSearchLimit, maxLimit)
	}
	return &LibraryController{
		store:        store,
		search:       search,
		tasks:        tasks,
		covers:       covers,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// LibrarySearchResponse holds ranked search results.
type LibrarySearchResponse struct {
	Results []entities.SearchResult `json:"results"`
	Count   int                     `json:"count"`
	Query   string                  `json:"query"`
}

// BookContentResponse carries a book for reading.
type BookContentResponse struct {
	Entry    entities.LibraryEntry `json:"entry"`
	Content  string                `json:"content"`
	Bookmark *entities.Bookmark    `json:"bookmark,omitempty"`
}

// GetLibrary handles GET /api/library
func (lc *LibraryController) GetLibrary(c *gin.Context) {
	entries := lc.store.GetLibrary()
	respondList(c, entries, len(entries))
}

// Search handles GET /api/library/search?q=&limit=
func (lc *LibraryController) Search(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		respondBadRequest(c, "q is required")
		return
	}

	limit, ok := parseIntQuery(c, "limit", lc.defaultLimit, 1, lc.maxLimit)
	if !ok {
		return
	}

	results := lc.search.Search(query, limit)
	c.JSON(http.StatusOK, LibrarySearchResponse{
		Results: results,
		Count:   len(results),
		Query:   query,
	})
}

// GetBookContent handles GET /api/library/book/:id
func (lc *LibraryController) GetBookContent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entry, found := lc.store.GetLibraryEntry(id)
	if !found {
		respondNotFound(c, "book")
		return
	}

	content, err := lc.store.ReadContent(id)
	switch {
	case errors.Is(err, store.ErrNotInLibrary):
		respondNotFound(c, "book")
		return
	case errors.Is(err, fs.ErrNotExist):
		respondNotFound(c, "book file")
		return
	case err != nil:
		respondInternalError(c, err, "read book content")
		return
	}

	resp := BookContentResponse{Entry: entry, Content: content}
	if bookmark, ok := lc.store.GetBookmark(id); ok {
		resp.Bookmark = &bookmark
	}
	c.JSON(http.StatusOK, resp)
}

// GetBookInfo handles GET /api/library/book/:id/info
func (lc *LibraryController) GetBookInfo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entry, found := lc.store.GetLibraryEntry(id)
	if !found {
		respondNotFound(c, "book")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteBook handles DELETE /api/library/book/:id
// Removes the index entry, the content file and the bookmark.
func (lc *LibraryController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	removed, err := lc.store.RemoveFromLibrary(id)
	if err != nil {
		respondInternalError(c, err, "delete library book")
		return
	}
	if !removed {
		respondNotFound(c, "book")
		return
	}

	lc.search.InvalidateBook(id)
	if lc.covers != nil {
		if err := lc.covers.InvalidateCover(id); err != nil {
			log.Printf("Warning: failed to remove cached cover for book %d: %v", id, err)
		}
	}
	respondSuccess(c, "Book deleted from library")
}

// GetCover handles GET /api/library/book/:id/cover
// Serves the cached cover, falling back to a redirect when it cannot be fetched.
func (lc *LibraryController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entry, found := lc.store.GetLibraryEntry(id)
	if !found || entry.CoverURL == "" {
		respondNotFound(c, "cover")
		return
	}

	cachePath, err := lc.covers.GetCover(c.Request.Context(), id, entry.CoverURL)
	if err != nil || cachePath == "" {
		if err != nil {
			log.Printf("Warning: failed to cache cover for book %d: %v", id, err)
		}
		c.Redirect(http.StatusTemporaryRedirect, entry.CoverURL)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(cachePath)
}

// Reindex handles POST /api/library/reindex
// With a task queue the rebuild runs in the background; otherwise inline.
func (lc *LibraryController) Reindex(c *gin.Context) {
	if lc.tasks != nil {
		ids, err := lc.tasks.Add(tasks.RebuildSearchIndexTask{Reason: "api"}).Save()
		if err != nil {
			respondInternalError(c, err, "enqueue index rebuild")
			return
		}
		respondAccepted(c, "index rebuild enqueued", gin.H{"task_id": ids[0]})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	if err := lc.search.RebuildIndex(ctx); err != nil {
		respondInternalError(c, err, "rebuild index")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "index rebuilt",
		Data:    gin.H{"indexed": lc.search.Size()},
	})
}
