package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/printingpress/internal/entities"
)

// BasketController manages books selected for conversion.
type BasketController struct {
	store BasketStore
	now   func() time.Time
}

func NewBasketController(store BasketStore) *BasketController {
	return &BasketController{store: store, now: time.Now}
}

// AddToBasketRequest is the body of POST /api/basket.
type AddToBasketRequest struct {
	Book entities.SourceBook `json:"book" binding:"required"`
}

// GetBasket handles GET /api/basket
func (bc *BasketController) GetBasket(c *gin.Context) {
	items := bc.store.GetBasket()
	respondList(c, items, len(items))
}

// AddToBasket handles POST /api/basket
// Books already in the library, the basket or the pipeline are refused.
func (bc *BasketController) AddToBasket(c *gin.Context) {
	var req AddToBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Book.ID <= 0 {
		respondBadRequest(c, "book.id is required")
		return
	}

	bookID := req.Book.ID
	if bc.store.IsInLibrary(bookID) {
		respondConflict(c, "in_library", "Book is already in your library")
		return
	}
	if bc.store.InBasket(bookID) {
		respondConflict(c, "in_basket", "Book is already in your basket")
		return
	}
	if _, processing := bc.store.GetProcessingRecord(bookID); processing {
		respondConflict(c, "processing", "Book is currently being processed")
		return
	}

	added, err := bc.store.AddToBasket(entities.BasketItem{Book: req.Book, AddedAt: bc.now()})
	if err != nil {
		respondInternalError(c, err, "add to basket")
		return
	}
	if !added {
		respondConflict(c, "in_basket", "Book is already in your basket")
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: fmt.Sprintf("Added '%s' to basket", req.Book.Title),
	})
}

// RemoveFromBasket handles DELETE /api/basket/:id
func (bc *BasketController) RemoveFromBasket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	removed, err := bc.store.RemoveFromBasket(id)
	if err != nil {
		respondInternalError(c, err, "remove from basket")
		return
	}
	if removed == nil {
		respondNotFound(c, "basket item")
		return
	}

	respondSuccess(c, "Removed from basket")
}

// ClearBasket handles DELETE /api/basket
func (bc *BasketController) ClearBasket(c *gin.Context) {
	removed, err := bc.store.ClearBasket()
	if err != nil {
		respondInternalError(c, err, "clear basket")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Basket cleared",
		Data:    gin.H{"removed": len(removed)},
	})
}
