package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/printingpress/internal/entities"
	"github.com/mrlokans/printingpress/internal/store"
)

// BookmarksController manages one reading position per library book.
type BookmarksController struct {
	store BookmarkStore
}

func NewBookmarksController(store BookmarkStore) *BookmarksController {
	return &BookmarksController{store: store}
}

// BookmarkRequest is the body of POST /api/bookmarks/:id.
type BookmarkRequest struct {
	TextPosition *int   `json:"text_position" binding:"required"`
	Label        string `json:"label"`
}

// AllBookmarksResponse maps book IDs to bookmarks.
type AllBookmarksResponse struct {
	Bookmarks map[int]entities.Bookmark `json:"bookmarks"`
	Count     int                       `json:"count"`
}

// GetAllBookmarks handles GET /api/bookmarks
func (bc *BookmarksController) GetAllBookmarks(c *gin.Context) {
	bookmarks := bc.store.GetAllBookmarks()
	c.JSON(http.StatusOK, AllBookmarksResponse{Bookmarks: bookmarks, Count: len(bookmarks)})
}

// GetBookmark handles GET /api/bookmarks/:id
func (bc *BookmarksController) GetBookmark(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	bookmark, found := bc.store.GetBookmark(id)
	if !found {
		respondNotFound(c, "bookmark")
		return
	}
	c.JSON(http.StatusOK, bookmark)
}

// SetBookmark handles POST /api/bookmarks/:id
func (bc *BookmarksController) SetBookmark(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req BookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if *req.TextPosition < 0 {
		respondBadRequest(c, "text_position must not be negative")
		return
	}

	saved, err := bc.store.SetBookmark(entities.Bookmark{
		BookID:       id,
		TextPosition: *req.TextPosition,
		Label:        req.Label,
	})
	if errors.Is(err, store.ErrNotInLibrary) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "set bookmark")
		return
	}

	c.JSON(http.StatusOK, saved)
}

// DeleteBookmark handles DELETE /api/bookmarks/:id
func (bc *BookmarksController) DeleteBookmark(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := bc.store.DeleteBookmark(id)
	if err != nil {
		respondInternalError(c, err, "delete bookmark")
		return
	}
	if !deleted {
		respondNotFound(c, "bookmark")
		return
	}
	respondSuccess(c, "Bookmark deleted")
}
