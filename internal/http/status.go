package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse summarizes every collection.
type StatusResponse struct {
	Status          string `json:"status"`
	BasketCount     int    `json:"basket_count"`
	ProcessingCount int    `json:"processing_count"`
	LibraryCount    int    `json:"library_count"`
	UnreadEvents    int    `json:"unread_events"`
	IndexedBooks    int    `json:"indexed_books"`
}

type StatusController struct {
	store  StatusStore
	search LibrarySearcher
}

func NewStatusController(store StatusStore, search LibrarySearcher) *StatusController {
	return &StatusController{store: store, search: search}
}

// Status handles GET /api/status
func (sc *StatusController) Status(c *gin.Context) {
	resp := StatusResponse{
		Status:          "ok",
		BasketCount:     len(sc.store.GetBasket()),
		ProcessingCount: len(sc.store.GetProcessing()),
		LibraryCount:    len(sc.store.GetLibrary()),
		UnreadEvents:    sc.store.UnreadCount(),
	}
	if sc.search != nil {
		resp.IndexedBooks = sc.search.Size()
	}
	c.JSON(http.StatusOK, resp)
}
