package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/printingpress/internal/entities"
)

// EventsController exposes pipeline notifications.
type EventsController struct {
	store EventStore
}

func NewEventsController(store EventStore) *EventsController {
	return &EventsController{store: store}
}

// EventsResponse lists events along with the unread total.
type EventsResponse struct {
	Events      []entities.NotificationEvent `json:"events"`
	Count       int                          `json:"count"`
	UnreadCount int                          `json:"unread_count"`
}

// GetEvents handles GET /api/events?unread_only=
func (ec *EventsController) GetEvents(c *gin.Context) {
	unreadOnly := false
	if raw := c.Query("unread_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, "invalid unread_only")
			return
		}
		unreadOnly = v
	}

	events := ec.store.GetEvents(unreadOnly)
	c.JSON(http.StatusOK, EventsResponse{
		Events:      events,
		Count:       len(events),
		UnreadCount: ec.store.UnreadCount(),
	})
}

// GetUnreadCount handles GET /api/events/unread-count
func (ec *EventsController) GetUnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": ec.store.UnreadCount()})
}

// MarkRead handles POST /api/events/:id/read
func (ec *EventsController) MarkRead(c *gin.Context) {
	found, err := ec.store.MarkEventRead(c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "mark event read")
		return
	}
	if !found {
		respondNotFound(c, "event")
		return
	}
	respondSuccess(c, "Event marked as read")
}

// MarkAllRead handles POST /api/events/read-all
func (ec *EventsController) MarkAllRead(c *gin.Context) {
	if err := ec.store.MarkAllEventsRead(); err != nil {
		respondInternalError(c, err, "mark all events read")
		return
	}
	respondSuccess(c, "All events marked as read")
}

// ClearEvents handles DELETE /api/events
func (ec *EventsController) ClearEvents(c *gin.Context) {
	if err := ec.store.ClearEvents(); err != nil {
		respondInternalError(c, err, "clear events")
		return
	}
	respondSuccess(c, "Events cleared")
}
