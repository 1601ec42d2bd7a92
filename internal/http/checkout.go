package http

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/printingpress/internal/entities"
)

// CheckoutController moves basket books into the conversion pipeline and
// reports their progress.
type CheckoutController struct {
	store     ProcessingStore
	processor BookProcessor
}

func NewCheckoutController(store ProcessingStore, processor BookProcessor) *CheckoutController {
	return &CheckoutController{store: store, processor: processor}
}

// CheckoutResponse lists the books that entered the pipeline.
type CheckoutResponse struct {
	Message         string                      `json:"message"`
	ProcessingCount int                         `json:"processing_count"`
	Items           []entities.ProcessingRecord `json:"items"`
}

// Checkout handles POST /api/checkout
// The basket is drained and every book is started. Books already in flight
// are skipped.
func (cc *CheckoutController) Checkout(c *gin.Context) {
	items, err := cc.store.ClearBasket()
	if err != nil {
		respondInternalError(c, err, "checkout")
		return
	}

	if len(items) == 0 {
		c.JSON(http.StatusOK, CheckoutResponse{
			Message: "Basket is empty",
			Items:   []entities.ProcessingRecord{},
		})
		return
	}

	started := make([]entities.ProcessingRecord, 0, len(items))
	for _, item := range items {
		if !cc.processor.StartProcessing(item.Book) {
			log.Printf("Warning: book %d was not started (already processing or shutting down)", item.Book.ID)
			continue
		}
		record, ok := cc.store.GetProcessingRecord(item.Book.ID)
		if !ok {
			// The pipeline may already have finished.
			record = entities.ProcessingRecord{Book: item.Book, Status: entities.ProcessingStatusQueued}
		}
		started = append(started, record)
	}

	c.JSON(http.StatusAccepted, CheckoutResponse{
		Message:         fmt.Sprintf("Started processing %d book(s)", len(started)),
		ProcessingCount: len(started),
		Items:           started,
	})
}

// GetProcessing handles GET /api/processing
func (cc *CheckoutController) GetProcessing(c *gin.Context) {
	records := cc.store.GetProcessing()
	respondList(c, records, len(records))
}

// CancelProcessing handles DELETE /api/processing/:id
func (cc *CheckoutController) CancelProcessing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !cc.processor.CancelProcessing(id) {
		respondNotFound(c, "processing book")
		return
	}

	respondSuccess(c, "Processing cancelled")
}
