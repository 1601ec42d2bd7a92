package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.Metrics != nil {
		router.Use(MetricsMiddleware(cfg.Metrics))
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.ContentDir, cfg.Version)
	catalogController := NewCatalogController(cfg.Catalog)
	basketController := NewBasketController(cfg.Store)
	checkoutController := NewCheckoutController(cfg.Store, cfg.Processor)
	libraryController := NewLibraryController(cfg.Store, cfg.Search, cfg.TaskClient, cfg.Covers, cfg.SearchDefaultLimit, cfg.SearchMaxLimit)
	bookmarksController := NewBookmarksController(cfg.Store)
	eventsController := NewEventsController(cfg.Store)
	statusController := NewStatusController(cfg.Store, cfg.Search)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := router.Group("/api")

	// Catalog endpoints
	api.GET("/gutenberg/search", catalogController.Search)
	api.GET("/gutenberg/book/:id", catalogController.GetBook)

	// Basket endpoints
	api.GET("/basket", basketController.GetBasket)
	api.POST("/basket", basketController.AddToBasket)
	api.DELETE("/basket/:id", basketController.RemoveFromBasket)
	api.DELETE("/basket", basketController.ClearBasket)

	// Checkout and processing endpoints
	api.POST("/checkout", checkoutController.Checkout)
	api.GET("/processing", checkoutController.GetProcessing)
	api.DELETE("/processing/:id", checkoutController.CancelProcessing)

	// Library endpoints
	api.GET("/library", libraryController.GetLibrary)
	api.GET("/library/search", libraryController.Search)
	api.GET("/library/book/:id", libraryController.GetBookContent)
	api.GET("/library/book/:id/info", libraryController.GetBookInfo)
	api.DELETE("/library/book/:id", libraryController.DeleteBook)
	api.POST("/library/reindex", libraryController.Reindex)
	if cfg.Covers != nil {
		api.GET("/library/book/:id/cover", libraryController.GetCover)
	}

	// Bookmark endpoints
	api.GET("/bookmarks", bookmarksController.GetAllBookmarks)
	api.GET("/bookmarks/:id", bookmarksController.GetBookmark)
	api.POST("/bookmarks/:id", bookmarksController.SetBookmark)
	api.DELETE("/bookmarks/:id", bookmarksController.DeleteBookmark)

	// Event endpoints
	api.GET("/events", eventsController.GetEvents)
	api.GET("/events/unread-count", eventsController.GetUnreadCount)
	api.POST("/events/read-all", eventsController.MarkAllRead)
	api.POST("/events/:id/read", eventsController.MarkRead)
	api.DELETE("/events", eventsController.ClearEvents)

	api.GET("/status", statusController.Status)

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
